package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/delaneyj/digestparty/compile"
	"github.com/delaneyj/digestparty/controller"
	"gopkg.in/yaml.v3"
)

// DirectiveSet is the YAML file inspect compiles against.
type DirectiveSet struct {
	Directives  []DirectiveSpec `yaml:"directives"`
	Controllers []string        `yaml:"controllers,omitempty"`
}

type DirectiveSpec struct {
	Name               string            `yaml:"name"`
	Restrict           string            `yaml:"restrict,omitempty"`
	Priority           int               `yaml:"priority,omitempty"`
	Terminal           bool              `yaml:"terminal,omitempty"`
	MultiElement       bool              `yaml:"multiElement,omitempty"`
	Scope              string            `yaml:"scope,omitempty"`
	Bindings           map[string]string `yaml:"bindings,omitempty"`
	BindToController   bool              `yaml:"bindToController,omitempty"`
	ControllerBindings map[string]string `yaml:"controllerBindings,omitempty"`
	Controller         string            `yaml:"controller,omitempty"`
	ControllerAs       string            `yaml:"controllerAs,omitempty"`
	Require            []string          `yaml:"require,omitempty"`
}

func LoadDirectiveSet(path string) (*DirectiveSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directive set: %w", err)
	}
	return ParseDirectiveSet(data)
}

// ParseDirectiveSet decodes and validates a directive set. Unknown fields
// are rejected.
func ParseDirectiveSet(data []byte) (*DirectiveSet, error) {
	var set DirectiveSet
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := set.validate(); err != nil {
		return nil, fmt.Errorf("invalid directive set: %w", err)
	}
	return &set, nil
}

func (set *DirectiveSet) validate() error {
	if len(set.Directives) == 0 {
		return fmt.Errorf("no directives")
	}
	known := map[string]bool{}
	for _, name := range set.Controllers {
		known[name] = true
	}
	for i, d := range set.Directives {
		if d.Name == "" {
			return fmt.Errorf("directive %d: missing name", i)
		}
		if _, err := scopeKind(d.Scope); err != nil {
			return fmt.Errorf("directive %s: %w", d.Name, err)
		}
		if d.Controller != "" && d.Controller != "@" && !known[d.Controller] {
			return fmt.Errorf("directive %s: unknown controller %q", d.Name, d.Controller)
		}
		if d.Controller == "" && (d.BindToController || len(d.ControllerBindings) > 0) {
			return fmt.Errorf("directive %s: controller bindings without a controller", d.Name)
		}
	}
	return nil
}

func scopeKind(s string) (compile.ScopeKind, error) {
	switch s {
	case "", "none":
		return compile.ScopeNone, nil
	case "inherit", "true":
		return compile.ScopeInherit, nil
	case "isolate":
		return compile.ScopeIsolate, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", s)
	}
}

// namedController is what every controller in a directive set constructs.
type namedController struct {
	controller.Props
	name string
}

func (c *namedController) String() string {
	return c.name
}

// Directive turns the entry into a descriptor. hook may wrap the compile
// step.
func (d DirectiveSpec) Directive(hook func(DirectiveSpec) compile.CompileFn) compile.Directive {
	kind, _ := scopeKind(d.Scope)
	out := compile.Directive{
		Priority:           d.Priority,
		Terminal:           d.Terminal,
		MultiElement:       d.MultiElement,
		Scope:              kind,
		Bindings:           d.Bindings,
		BindToController:   d.BindToController,
		ControllerBindings: d.ControllerBindings,
		ControllerAs:       d.ControllerAs,
		Require:            d.Require,
	}
	if d.Restrict != "" {
		out.Restrict = compile.Modes(d.Restrict)
	}
	if d.Controller != "" {
		out.Controller = d.Controller
	}
	if hook != nil {
		out.Compile = hook(d)
	}
	return out
}

// Register adds the set's controllers and directives.
func (set *DirectiveSet) Register(p *compile.Provider, ctrls *controller.Registry, hook func(DirectiveSpec) compile.CompileFn) error {
	for _, name := range set.Controllers {
		ctrls.Register(name, &controller.Constructor{
			New: func() any { return &namedController{name: name} },
		})
	}
	for _, d := range set.Directives {
		if err := p.Directive(d.Name, compile.Define(d.Directive(hook))); err != nil {
			return err
		}
	}
	return nil
}
