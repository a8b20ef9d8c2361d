package dom_test

import (
	"testing"

	"github.com/delaneyj/digestparty/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	parent := dom.NewElement("DIV", dom.A("class", "a  b"), dom.A("My-Attr", "x"))
	first := dom.NewElement("span")
	second := dom.NewComment(" directive: my-dir ")
	parent.Append(first, second)

	assert.Equal(t, "div", parent.Name())
	assert.Equal(t, dom.ElementNode, parent.Type())
	assert.Equal(t, []string{"a", "b"}, parent.Classes())
	assert.True(t, parent.HasAttr("my-attr"))
	v, ok := parent.Attr("MY-ATTR")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	require.Len(t, parent.Children(), 2)
	assert.Equal(t, dom.Node(second), first.NextSibling())
	assert.Nil(t, second.NextSibling())
	assert.Nil(t, parent.NextSibling())
	assert.Equal(t, dom.Node(parent), first.Parent())
	assert.Nil(t, parent.Parent())

	assert.Equal(t, dom.CommentNode, second.Type())
	assert.Equal(t, "#comment", second.Name())
	assert.Nil(t, second.Classes())
}

func TestSetAttr(t *testing.T) {
	n := dom.NewElement("div", dom.A("a", "1"))
	n.SetAttr("A", "2")
	n.SetAttr("b", "3")
	assert.Equal(t, []dom.Attribute{{Name: "a", Value: "2"}, {Name: "b", Value: "3"}}, n.Attributes())
}

func TestInheritedData(t *testing.T) {
	outer := dom.NewElement("div")
	inner := dom.NewElement("span")
	outer.Append(inner)

	outer.SetData("key", 42)
	v, ok := dom.InheritedData(inner, "key")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = inner.Data("key")
	assert.False(t, ok)
	_, ok = dom.InheritedData(inner, "missing")
	assert.False(t, ok)
}

func TestNextSiblingAfterMoves(t *testing.T) {
	a, b, c := dom.NewElement("a"), dom.NewElement("b"), dom.NewElement("c")
	list := dom.NewElement("ul").Append(a, b, c)
	other := dom.NewElement("ol")

	other.Append(a)
	assert.Equal(t, dom.Node(c), b.NextSibling())
	assert.Nil(t, c.NextSibling())
	assert.Nil(t, a.NextSibling())

	list.Append(a)
	assert.Equal(t, dom.Node(a), c.NextSibling())
	require.Len(t, list.Children(), 3)
	assert.Empty(t, other.Children())
}

func TestFragmentMakesSiblings(t *testing.T) {
	a := dom.NewElement("div")
	b := dom.NewElement("div")
	nodes := dom.Fragment(a, b)
	require.Len(t, nodes, 2)
	assert.Equal(t, dom.Node(b), a.NextSibling())
}

func TestParse(t *testing.T) {
	nodes, err := dom.Parse(`<div my-directive class="x y"><span data-other="1">hi</span></div><!-- directive: my-dir --><p x-foo></p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	div := nodes[0]
	assert.Equal(t, "div", div.Name())
	assert.True(t, div.HasAttr("my-directive"))
	assert.Equal(t, []string{"x", "y"}, div.Classes())

	children := div.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "span", children[0].Name())
	other, _ := children[0].Attr("data-other")
	assert.Equal(t, "1", other)
	require.Len(t, children[0].Children(), 1)
	assert.Equal(t, dom.TextNode, children[0].Children()[0].Type())
	assert.Equal(t, "hi", children[0].Children()[0].Text())

	assert.Equal(t, dom.CommentNode, nodes[1].Type())
	assert.Equal(t, " directive: my-dir ", nodes[1].Text())

	assert.Equal(t, nodes[1], nodes[0].NextSibling())
	assert.Equal(t, nodes[2], nodes[1].NextSibling())
}

func TestRender(t *testing.T) {
	nodes, err := dom.Parse(`<div a="1"><!--c-->t</div>`)
	require.NoError(t, err)
	out, err := dom.Render(nodes...)
	require.NoError(t, err)
	assert.Equal(t, `<div a="1"><!--c-->t</div>`, out)

	t.Run("void elements have no end tag", func(t *testing.T) {
		nodes, err := dom.Parse(`<p>a<br>b<input my-field></p>`)
		require.NoError(t, err)
		out, err := dom.Render(nodes...)
		require.NoError(t, err)
		assert.Equal(t, `<p>a<br/>b<input my-field=""/></p>`, out)
	})

	t.Run("escapes text and attributes", func(t *testing.T) {
		out, err := dom.Render(dom.NewElement("b", dom.A("title", `"x"`)).Append(dom.NewText("1 < 2")))
		require.NoError(t, err)
		assert.Equal(t, `<b title="&#34;x&#34;">1 &lt; 2</b>`, out)
	})
}

func TestStartTag(t *testing.T) {
	nodes, err := dom.Parse(`<form my-form class="a"><input my-field></form><!-- directive: x -->`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, `<form my-form="" class="a">`, dom.StartTag(nodes[0]))
	assert.Equal(t, `<input my-field="">`, dom.StartTag(nodes[0].Children()[0]))
	assert.Equal(t, `<!-- directive: x -->`, dom.StartTag(nodes[1]))
}
