// Package inject is a small named-dependency container. Values are provided
// eagerly or through lazy factories, and functions are invoked with their
// dependencies resolved by name, locals first.
package inject

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrCircular        = errors.New("circular dependency")
)

type FactoryFunc func(inj *Injector) (any, error)

type Injector struct {
	values    map[string]any
	factories map[string]FactoryFunc
	loading   []string
}

func New() *Injector {
	return &Injector{
		values:    map[string]any{},
		factories: map[string]FactoryFunc{},
	}
}

func (inj *Injector) Value(name string, v any) {
	delete(inj.factories, name)
	inj.values[name] = v
}

// Factory registers fn to build name on first use. Registering again drops
// any instance already built.
func (inj *Injector) Factory(name string, fn FactoryFunc) {
	delete(inj.values, name)
	inj.factories[name] = fn
}

func (inj *Injector) Has(name string) bool {
	if _, ok := inj.values[name]; ok {
		return true
	}
	_, ok := inj.factories[name]
	return ok
}

func (inj *Injector) Get(name string) (any, error) {
	if v, ok := inj.values[name]; ok {
		return v, nil
	}
	fn, ok := inj.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	for _, l := range inj.loading {
		if l == name {
			path := append(append([]string{}, inj.loading...), name)
			return nil, fmt.Errorf("%w: %s", ErrCircular, strings.Join(path, " <- "))
		}
	}

	inj.loading = append(inj.loading, name)
	v, err := fn(inj)
	inj.loading = inj.loading[:len(inj.loading)-1]
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", name, err)
	}
	inj.values[name] = v
	delete(inj.factories, name)
	return v, nil
}

// Invoke resolves deps, preferring locals, and calls fn with them in the
// order they were named.
func (inj *Injector) Invoke(deps []string, fn func(args []any) (any, error), locals map[string]any) (any, error) {
	args := make([]any, len(deps))
	for i, dep := range deps {
		if v, ok := locals[dep]; ok {
			args[i] = v
			continue
		}
		v, err := inj.Get(dep)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args)
}
