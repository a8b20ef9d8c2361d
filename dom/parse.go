package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment and returns its top level nodes as siblings.
func Parse(src string) ([]Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	top := make([]*BasicNode, 0, len(parsed))
	for _, p := range parsed {
		if n := convert(p); n != nil {
			top = append(top, n)
		}
	}
	return Fragment(top...), nil
}

func convert(p *html.Node) *BasicNode {
	var n *BasicNode
	switch p.Type {
	case html.ElementNode:
		attrs := make([]Attribute, 0, len(p.Attr))
		for _, a := range p.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			attrs = append(attrs, Attribute{Name: name, Value: a.Val})
		}
		n = NewElement(p.Data, attrs...)
	case html.TextNode:
		n = NewText(p.Data)
	case html.CommentNode:
		n = NewComment(p.Data)
	default:
		return nil
	}

	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.Append(child)
		}
	}
	return n
}

// Render writes nodes back out as markup through the html package's
// serializer. It is meant for diagnostics.
func Render(nodes ...Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, toHTML(n, true)); err != nil {
			return "", fmt.Errorf("render %s: %w", n.Name(), err)
		}
	}
	return sb.String(), nil
}

// StartTag renders only the opening tag of an element. Other nodes render
// in full.
func StartTag(n Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, toHTML(n, false)); err != nil {
		return "<" + n.Name() + ">"
	}
	out := sb.String()
	if n.Type() != ElementNode {
		return out
	}
	if strings.HasSuffix(out, "/>") {
		return out[:len(out)-2] + ">"
	}
	return strings.TrimSuffix(out, "</"+n.Name()+">")
}

func toHTML(n Node, deep bool) *html.Node {
	switch n.Type() {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Text()}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Text()}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Name(),
		DataAtom: atom.Lookup([]byte(n.Name())),
	}
	for _, a := range n.Attributes() {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if deep {
		for _, c := range n.Children() {
			out.AppendChild(toHTML(c, true))
		}
	}
	return out
}
