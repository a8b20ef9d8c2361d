package compile

import (
	"regexp"

	"github.com/delaneyj/digestparty/controller"
	"github.com/delaneyj/digestparty/dom"
)

var requirePrefixRegexp = regexp.MustCompile(`^(\^\^?)?(\??)(\^\^?)?`)

// requiredControllers resolves what d's link receives as its controller
// argument.
func (c *Compiler) requiredControllers(nl *nodeLink, d *Directive, local map[string]*controller.Pending) (any, error) {
	switch len(d.Require) {
	case 0:
		if p, ok := local[d.Name]; ok {
			return p.Instance, nil
		}
		return nil, nil
	case 1:
		return resolveRequire(nl.node, d.Name, d.Require[0], local)
	}

	out := make([]any, len(d.Require))
	for i, req := range d.Require {
		ctrl, err := resolveRequire(nl.node, d.Name, req, local)
		if err != nil {
			return nil, err
		}
		out[i] = ctrl
	}
	return out, nil
}

func resolveRequire(node dom.Node, directive, req string, local map[string]*controller.Pending) (any, error) {
	m := requirePrefixRegexp.FindStringSubmatch(req)
	name := req[len(m[0]):]
	optional := m[2] == "?"
	search := m[1] + m[3]

	var (
		ctrl  any
		found bool
	)
	switch search {
	case "":
		if p, ok := local[name]; ok {
			ctrl, found = p.Instance, true
		}
	case "^":
		if p, ok := local[name]; ok {
			ctrl, found = p.Instance, true
		} else if parent := node.Parent(); parent != nil {
			ctrl, found = dom.InheritedData(parent, controllerKey(name))
		}
	default:
		if parent := node.Parent(); parent != nil {
			ctrl, found = dom.InheritedData(parent, controllerKey(name))
		}
	}

	if !found && !optional {
		return nil, &RequireError{Directive: directive, Require: req, Node: node.Name()}
	}
	return ctrl, nil
}
