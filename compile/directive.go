// Package compile matches directives against a dom tree, compiles them in
// priority order and links the result against a scope hierarchy.
package compile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/digestparty/dom"
	"github.com/delaneyj/digestparty/inject"
	"github.com/delaneyj/digestparty/scope"
)

// Mode is one of the ways a directive can be matched against a node.
type Mode byte

const (
	ModeElement   Mode = 'E'
	ModeAttribute Mode = 'A'
	ModeClass     Mode = 'C'
	ModeComment   Mode = 'M'
)

const DefaultRestrict = "EA"

// Modes turns a restrict string like "EAC" into a mode set. Unknown letters
// are ignored.
func Modes(restrict string) mapset.Set[Mode] {
	set := mapset.NewThreadUnsafeSet[Mode]()
	for _, r := range restrict {
		switch m := Mode(r); m {
		case ModeElement, ModeAttribute, ModeClass, ModeComment:
			set.Add(m)
		}
	}
	return set
}

type ScopeKind uint8

const (
	ScopeNone ScopeKind = iota
	ScopeInherit
	ScopeIsolate
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeInherit:
		return "inherit"
	case ScopeIsolate:
		return "isolate"
	default:
		return "none"
	}
}

type (
	// LinkFn is called once per linked node (or node group) with the scope
	// the directive was given and whatever its require resolved to.
	LinkFn func(s *scope.Scope, nodes []dom.Node, attrs *Attributes, ctrl any) error

	// CompileFn runs at compile time and may return the link function.
	CompileFn func(nodes []dom.Node, attrs *Attributes) (LinkFn, error)

	DirectiveFactory func(inj *inject.Injector) (*Directive, error)
)

type Directive struct {
	Name         string
	Restrict     mapset.Set[Mode]
	Priority     int
	Terminal     bool
	MultiElement bool
	// Index is the registration order among directives sharing Name.
	Index int

	// Controller is a registered controller name, "@" to take the name from
	// the directive's attribute value, or a *controller.Constructor.
	Controller   any
	ControllerAs string

	Scope ScopeKind
	// Bindings declares isolate scope bindings, "@attr" for the literal
	// attribute value and "<attr" for a one-way watched parent property.
	// A '?' after the mode makes the binding optional.
	Bindings map[string]string
	// BindToController moves isolate bindings onto the controller.
	BindToController bool
	// ControllerBindings are bound onto the controller whatever the scope.
	ControllerBindings map[string]string

	// Require lists controllers to hand to Link. Each entry may be
	// prefixed with ^, ^^ and ? in either order.
	Require []string

	Compile CompileFn
	Link    LinkFn

	isolateBindings    []binding
	controllerBindings []binding
	start, end         string
}

// Define wraps a static descriptor as a factory. Every materialization gets
// its own copy.
func Define(d Directive) DirectiveFactory {
	return func(*inject.Injector) (*Directive, error) {
		cp := d
		return &cp, nil
	}
}

func (d *Directive) String() string {
	return fmt.Sprintf("%s#%d(priority %d)", d.Name, d.Index, d.Priority)
}

// withGroup returns a copy of d carrying multi-element group markers.
func (d *Directive) withGroup(start, end string) *Directive {
	cp := *d
	cp.start, cp.end = start, end
	return &cp
}

type bindingMode byte

const (
	bindAttr   bindingMode = '@'
	bindOneWay bindingMode = '<'
)

type binding struct {
	name     string
	mode     bindingMode
	optional bool
	attr     string
}

var bindingRegexp = regexp.MustCompile(`^\s*([@<])\s*(\??)\s*(\w*)\s*$`)

func parseBindings(directive string, decl map[string]string) ([]binding, error) {
	names := make([]string, 0, len(decl))
	for name := range decl {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]binding, 0, len(names))
	for _, name := range names {
		m := bindingRegexp.FindStringSubmatch(decl[name])
		if m == nil {
			return nil, fmt.Errorf("%w: %s: %s=%q", ErrInvalidBinding, directive, name, decl[name])
		}
		b := binding{
			name:     name,
			mode:     bindingMode(m[1][0]),
			optional: m[2] == "?",
			attr:     m[3],
		}
		if b.attr == "" {
			b.attr = name
		}
		out = append(out, b)
	}
	return out, nil
}

const reservedName = "hasOwnProperty"

// Provider is the directive registration surface. Factories are stored in
// the injector as "<name>Directive" and materialized on first lookup.
type Provider struct {
	inj        *inject.Injector
	factories  map[string][]DirectiveFactory
	generation uint64
}

func NewProvider(inj *inject.Injector) *Provider {
	if inj == nil {
		inj = inject.New()
	}
	return &Provider{
		inj:       inj,
		factories: map[string][]DirectiveFactory{},
	}
}

func (p *Provider) Injector() *inject.Injector {
	return p.inj
}

// Directive registers factory under name. Registering the same name again
// adds another directive rather than replacing the first.
func (p *Provider) Directive(name string, factory DirectiveFactory) error {
	if name == reservedName {
		return fmt.Errorf("%w: %s", ErrInvalidDirectiveName, name)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDirectiveName)
	}
	if factory == nil {
		return fmt.Errorf("directive %s: nil factory", name)
	}

	p.factories[name] = append(p.factories[name], factory)
	factories := append([]DirectiveFactory(nil), p.factories[name]...)
	p.inj.Factory(name+"Directive", func(inj *inject.Injector) (any, error) {
		return materialize(inj, name, factories)
	})
	p.generation++
	return nil
}

// Directives registers several directives in name order.
func (p *Provider) Directives(factories map[string]DirectiveFactory) error {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.Directive(name, factories[name]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) Has(name string) bool {
	_, ok := p.factories[name]
	return ok
}

// Names returns the registered directive names, sorted.
func (p *Provider) Names() []string {
	names := make([]string, 0, len(p.factories))
	for name := range p.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup materializes every directive registered under name.
func (p *Provider) Lookup(name string) ([]*Directive, error) {
	if !p.Has(name) {
		return nil, nil
	}
	v, err := p.inj.Get(name + "Directive")
	if err != nil {
		return nil, err
	}
	return v.([]*Directive), nil
}

func (p *Provider) isMultiElement(name string) bool {
	dirs, err := p.Lookup(name)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if d.MultiElement {
			return true
		}
	}
	return false
}

func materialize(inj *inject.Injector, name string, factories []DirectiveFactory) ([]*Directive, error) {
	out := make([]*Directive, 0, len(factories))
	for i, factory := range factories {
		d, err := factory(inj)
		if err != nil {
			return nil, fmt.Errorf("directive %s: %w", name, err)
		}
		if d == nil {
			return nil, fmt.Errorf("directive %s: factory returned nil", name)
		}
		cp := *d
		if cp.Name == "" {
			cp.Name = name
		}
		if cp.Restrict == nil || cp.Restrict.Cardinality() == 0 {
			cp.Restrict = Modes(DefaultRestrict)
		}
		cp.Index = i

		if cp.Scope == ScopeIsolate {
			if cp.isolateBindings, err = parseBindings(cp.Name, cp.Bindings); err != nil {
				return nil, err
			}
		}
		if cp.controllerBindings, err = parseBindings(cp.Name, cp.ControllerBindings); err != nil {
			return nil, err
		}
		out = append(out, &cp)
	}
	return out, nil
}
