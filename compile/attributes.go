package compile

import (
	"sort"
	"strings"
)

// Attributes holds a node's attribute values keyed by normalized name.
type Attributes struct {
	values   map[string]string
	original map[string]string
}

func newAttributes() *Attributes {
	return &Attributes{
		values:   map[string]string{},
		original: map[string]string{},
	}
}

func (a *Attributes) add(normalized, original, value string) {
	a.values[normalized] = strings.TrimSpace(value)
	a.original[normalized] = original
}

func (a *Attributes) Get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Value returns the attribute value, or "" when absent.
func (a *Attributes) Value(name string) string {
	return a.values[name]
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Set changes a value on the compiled attribute set. The node itself is not
// touched.
func (a *Attributes) Set(name, value string) {
	a.values[name] = value
	if _, ok := a.original[name]; !ok {
		a.original[name] = kebabCase(name)
	}
}

// Original is the attribute name as written on the node.
func (a *Attributes) Original(name string) string {
	return a.original[name]
}

func (a *Attributes) Names() []string {
	names := make([]string, 0, len(a.values))
	for name := range a.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Attributes) Len() int {
	return len(a.values)
}
