// Package controller registers and instantiates directive controllers.
//
// Construction is two-phase: New allocates the instance and Init runs the
// constructor body with injected dependencies. Between the two, callers can
// publish the instance or assign bindings onto it.
package controller

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotRegistered      = errors.New("controller not registered")
	ErrInvalidRef         = errors.New("invalid controller reference")
	ErrAlreadyConstructed = errors.New("controller already constructed")
)

// Injector resolves named dependencies, consulting locals first.
type Injector interface {
	Invoke(deps []string, fn func(args []any) (any, error), locals map[string]any) (any, error)
}

// Publisher is anything an instance can be published on under an alias,
// typically a scope.
type Publisher interface {
	Set(name string, value any)
}

// Bindable instances receive bindings before their constructor body runs.
type Bindable interface {
	SetBinding(name string, value any)
}

type Constructor struct {
	Name   string
	Inject []string
	New    func() any
	// Init is the constructor body. It may be nil.
	Init func(self any, deps []any) error
}

// Pending is a semi-constructed controller: Instance exists but its
// constructor body has not run yet.
type Pending struct {
	Instance any
	complete func() (any, error)
	done     bool
}

func (p *Pending) Complete() (any, error) {
	if p.done {
		return nil, ErrAlreadyConstructed
	}
	p.done = true
	return p.complete()
}

func (p *Pending) Completed() bool {
	return p.done
}

type Registry struct {
	injector     Injector
	controllers  map[string]*Constructor
	globals      map[string]*Constructor
	allowGlobals bool
}

func NewRegistry(inj Injector) *Registry {
	return &Registry{
		injector:    inj,
		controllers: map[string]*Constructor{},
	}
}

func (r *Registry) Register(name string, c *Constructor) {
	if c.Name == "" {
		cp := *c
		cp.Name = name
		c = &cp
	}
	r.controllers[name] = c
}

func (r *Registry) RegisterAll(ctrls map[string]*Constructor) {
	names := make([]string, 0, len(ctrls))
	for name := range ctrls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Register(name, ctrls[name])
	}
}

// AllowGlobals enables falling back to globals for names that were never
// registered. Without it globals are ignored.
func (r *Registry) AllowGlobals(globals map[string]*Constructor) {
	r.allowGlobals = true
	r.globals = globals
}

func (r *Registry) Lookup(name string) (*Constructor, error) {
	if c, ok := r.controllers[name]; ok {
		return c, nil
	}
	if r.allowGlobals {
		if c, ok := r.globals[name]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
}

func (r *Registry) resolve(ref any) (*Constructor, error) {
	switch ref := ref.(type) {
	case string:
		return r.Lookup(ref)
	case *Constructor:
		if ref == nil || ref.New == nil {
			return nil, fmt.Errorf("%w: constructor without New", ErrInvalidRef)
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidRef, ref)
	}
}

// Instantiate fully constructs the controller named or described by ref.
func (r *Registry) Instantiate(ref any, locals map[string]any, ident string) (any, error) {
	p, err := r.InstantiateLater(ref, locals, ident)
	if err != nil {
		return nil, err
	}
	return p.Complete()
}

// InstantiateLater allocates the controller without running its constructor
// body. With ident set and a Publisher under "$scope" in locals, the
// instance is published right away.
func (r *Registry) InstantiateLater(ref any, locals map[string]any, ident string) (*Pending, error) {
	c, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}

	instance := c.New()
	if ident != "" {
		if pub, ok := locals["$scope"].(Publisher); ok {
			pub.Set(ident, instance)
		}
	}

	return &Pending{
		Instance: instance,
		complete: func() (any, error) {
			if c.Init == nil {
				return instance, nil
			}
			if r.injector == nil {
				if len(c.Inject) > 0 {
					return nil, fmt.Errorf("construct %s: no injector for %v", c.Name, c.Inject)
				}
				if err := c.Init(instance, nil); err != nil {
					return nil, fmt.Errorf("construct %s: %w", c.Name, err)
				}
				return instance, nil
			}
			_, err := r.injector.Invoke(c.Inject, func(args []any) (any, error) {
				return nil, c.Init(instance, args)
			}, locals)
			if err != nil {
				return nil, fmt.Errorf("construct %s: %w", c.Name, err)
			}
			return instance, nil
		},
	}, nil
}

// Props is an embeddable Bindable backed by a map.
type Props struct {
	values map[string]any
}

func (p *Props) SetBinding(name string, value any) {
	if p.values == nil {
		p.values = map[string]any{}
	}
	p.values[name] = value
}

func (p *Props) Binding(name string) any {
	return p.values[name]
}
