// Package dom is the node tree the compiler walks. The compiler only relies
// on the Node interface; BasicNode is the in-memory implementation.
package dom

import (
	"strings"
)

type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Name  string
	Value string
}

func A(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

type Node interface {
	Type() NodeType
	// Name is the lower cased tag name, or "#text" / "#comment".
	Name() string
	Attributes() []Attribute
	// Attr and HasAttr match names case-insensitively.
	Attr(name string) (string, bool)
	HasAttr(name string) bool
	Classes() []string
	Text() string

	Parent() Node
	Children() []Node
	NextSibling() Node

	Data(key string) (any, bool)
	SetData(key string, value any)
}

type BasicNode struct {
	kind     NodeType
	name     string
	text     string
	attrs    []Attribute
	parent   *BasicNode
	index    int // position in parent.children
	children []*BasicNode
	data     map[string]any
}

func NewElement(tag string, attrs ...Attribute) *BasicNode {
	return &BasicNode{
		kind:  ElementNode,
		name:  strings.ToLower(tag),
		attrs: attrs,
	}
}

func NewText(text string) *BasicNode {
	return &BasicNode{kind: TextNode, name: "#text", text: text}
}

func NewComment(text string) *BasicNode {
	return &BasicNode{kind: CommentNode, name: "#comment", text: text}
}

// Append adds children to n and returns n.
func (n *BasicNode) Append(children ...*BasicNode) *BasicNode {
	for _, c := range children {
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = n
		c.index = len(n.children)
		n.children = append(n.children, c)
	}
	return n
}

func (n *BasicNode) remove(c *BasicNode) {
	for i, cur := range n.children {
		if cur == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			for j := i; j < len(n.children); j++ {
				n.children[j].index = j
			}
			return
		}
	}
}

func (n *BasicNode) Type() NodeType {
	return n.kind
}

func (n *BasicNode) Name() string {
	return n.name
}

func (n *BasicNode) Text() string {
	return n.text
}

func (n *BasicNode) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

func (n *BasicNode) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (n *BasicNode) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

func (n *BasicNode) SetAttr(name, value string) {
	for i, a := range n.attrs {
		if strings.EqualFold(a.Name, name) {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
}

func (n *BasicNode) Classes() []string {
	if n.kind != ElementNode {
		return nil
	}
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

func (n *BasicNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *BasicNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *BasicNode) NextSibling() Node {
	if n.parent == nil {
		return nil
	}
	if next := n.index + 1; next < len(n.parent.children) {
		return n.parent.children[next]
	}
	return nil
}

func (n *BasicNode) Data(key string) (any, bool) {
	v, ok := n.data[key]
	return v, ok
}

func (n *BasicNode) SetData(key string, value any) {
	if n.data == nil {
		n.data = map[string]any{}
	}
	n.data[key] = value
}

// Fragment parents nodes under an anonymous container so they become
// siblings of each other, and returns them as a slice.
func Fragment(nodes ...*BasicNode) []Node {
	container := &BasicNode{kind: ElementNode, name: "#fragment"}
	container.Append(nodes...)
	return container.Children()
}

// InheritedData looks key up on n and then on each ancestor.
func InheritedData(n Node, key string) (any, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if v, ok := cur.Data(key); ok {
			return v, true
		}
	}
	return nil, false
}
