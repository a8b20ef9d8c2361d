package compile

import (
	"fmt"

	"github.com/delaneyj/digestparty/controller"
	"github.com/delaneyj/digestparty/scope"
)

func controllerKey(directive string) string {
	return "$" + directive + "Controller"
}

func (c *Compiler) linkNodes(links []*nodeLink, s *scope.Scope) error {
	for _, nl := range links {
		if err := c.linkNode(nl, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) linkNode(nl *nodeLink, s *scope.Scope) error {
	nodeScope := s
	if nl.inherit {
		nodeScope = s.New()
	}
	var isolateScope *scope.Scope
	if nl.isolate != nil {
		isolateScope = s.NewIsolate()
	}
	scopeFor := func(d *Directive) *scope.Scope {
		if d == nl.isolate {
			return isolateScope
		}
		return nodeScope
	}

	pending := map[string]*controller.Pending{}
	for _, a := range nl.applied {
		d := a.directive
		if d.Controller == nil {
			continue
		}
		ref := d.Controller
		if ref == "@" {
			ref = nl.attrs.Value(d.Name)
		}
		locals := map[string]any{
			"$scope":      scopeFor(d),
			"$element":    a.nodes,
			"$attrs":      nl.attrs,
			"$transclude": nil,
		}
		p, err := c.controllers.InstantiateLater(ref, locals, d.ControllerAs)
		if err != nil {
			return fmt.Errorf("controller for %s: %w", d.Name, err)
		}
		pending[d.Name] = p
		nl.node.SetData(controllerKey(d.Name), p.Instance)
	}

	if d := nl.isolate; d != nil {
		var target bindTarget = isolateScope
		if d.BindToController {
			b, err := bindableController(d, pending)
			if err != nil {
				return err
			}
			target = bindableTarget{b}
		}
		if err := bind(d, d.isolateBindings, nl.attrs, s, isolateScope, target); err != nil {
			return err
		}
	}
	for _, a := range nl.applied {
		d := a.directive
		if len(d.controllerBindings) == 0 {
			continue
		}
		b, err := bindableController(d, pending)
		if err != nil {
			return err
		}
		if err := bind(d, d.controllerBindings, nl.attrs, s, scopeFor(d), bindableTarget{b}); err != nil {
			return err
		}
	}

	for _, a := range nl.applied {
		if p, ok := pending[a.directive.Name]; ok && !p.Completed() {
			if _, err := p.Complete(); err != nil {
				return fmt.Errorf("controller for %s: %w", a.directive.Name, err)
			}
		}
	}

	if len(nl.children) > 0 {
		if err := c.linkNodes(nl.children, nodeScope); err != nil {
			return err
		}
	}

	for _, a := range nl.applied {
		if a.link == nil {
			continue
		}
		d := a.directive
		ctrl, err := c.requiredControllers(nl, d, pending)
		if err != nil {
			return err
		}
		if err := a.link(scopeFor(d), a.nodes, nl.attrs, ctrl); err != nil {
			return fmt.Errorf("link %s: %w", d.Name, err)
		}
	}
	return nil
}

func bindableController(d *Directive, pending map[string]*controller.Pending) (controller.Bindable, error) {
	p, ok := pending[d.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s binds to a controller but has none", ErrInvalidBinding, d.Name)
	}
	b, ok := p.Instance.(controller.Bindable)
	if !ok {
		return nil, fmt.Errorf("%w: controller %T of %s is not bindable", ErrInvalidBinding, p.Instance, d.Name)
	}
	return b, nil
}

type bindTarget interface {
	Set(name string, value any)
}

type bindableTarget struct {
	controller.Bindable
}

func (t bindableTarget) Set(name string, value any) {
	t.SetBinding(name, value)
}

// bind applies bindings to target. One-way bindings read from parent and
// are watched on owner so destroying owner drops the watch.
func bind(d *Directive, bindings []binding, attrs *Attributes, parent, owner *scope.Scope, target bindTarget) error {
	for _, b := range bindings {
		value, present := attrs.Get(b.attr)
		if !present {
			if b.optional {
				continue
			}
			if b.mode == bindOneWay {
				return fmt.Errorf("%w: %s needs attribute %q for %s", ErrInvalidBinding, d.Name, b.attr, b.name)
			}
		}

		switch b.mode {
		case bindAttr:
			target.Set(b.name, value)
		case bindOneWay:
			expr, name := value, b.name
			target.Set(name, parent.Get(expr))
			owner.Watch(func(*scope.Scope) any {
				return parent.Get(expr)
			}, func(newValue, _ any, _ *scope.Scope) error {
				target.Set(name, newValue)
				return nil
			}, false)
		}
	}
	return nil
}
