package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/cmd/digestparty/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formSet = `
controllers: [FormController]
directives:
  - name: myForm
    controller: FormController
    controllerAs: form
    scope: inherit
  - name: myField
    require: ["^myForm"]
  - name: myStop
    priority: 100
    terminal: true
  - name: myLow
    priority: 10
  - name: myRepeat
    multiElement: true
`

func TestParseDirectiveSet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		set, err := ParseDirectiveSet([]byte(formSet))
		require.NoError(t, err)
		require.Len(t, set.Directives, 5)
		assert.Equal(t, "myForm", set.Directives[0].Name)
		assert.Equal(t, []string{"^myForm"}, set.Directives[1].Require)
		assert.True(t, set.Directives[2].Terminal)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := ParseDirectiveSet([]byte("directives:\n  - name: a\n    priorty: 1\n"))
		assert.Error(t, err)
	})

	t.Run("rejects unknown scopes", func(t *testing.T) {
		_, err := ParseDirectiveSet([]byte("directives:\n  - name: a\n    scope: shared\n"))
		assert.ErrorContains(t, err, "unknown scope")
	})

	t.Run("rejects unknown controllers", func(t *testing.T) {
		_, err := ParseDirectiveSet([]byte("directives:\n  - name: a\n    controller: Nope\n"))
		assert.ErrorContains(t, err, "unknown controller")
	})

	t.Run("rejects controller bindings without a controller", func(t *testing.T) {
		_, err := ParseDirectiveSet([]byte("directives:\n  - name: a\n    scope: isolate\n    bindToController: true\n"))
		assert.ErrorContains(t, err, "without a controller")
	})

	t.Run("requires names", func(t *testing.T) {
		_, err := ParseDirectiveSet([]byte("directives:\n  - priority: 1\n"))
		assert.ErrorContains(t, err, "missing name")
	})
}

func TestInspect(t *testing.T) {
	set, err := ParseDirectiveSet([]byte(formSet))
	require.NoError(t, err)

	report, err := Inspect(set, `<form my-form><input my-field><div my-stop my-low><span my-field></span></div></form><div my-repeat-start></div><div my-repeat-end></div>`, log.New(io.Discard))
	require.NoError(t, err)

	assert.Equal(t, []string{"myField", "myForm", "myLow", "myRepeat", "myStop"}, report.Registered)
	assert.Empty(t, report.LinkError)
	assert.Empty(t, report.DigestError)
	assert.Equal(t, 1, report.Skipped)

	byName := map[string]*templates.AppliedDirective{}
	for _, n := range report.Nodes {
		for _, d := range n.Directives {
			byName[d.Name] = d
		}
	}
	require.Contains(t, byName, "myForm")
	assert.Equal(t, "FormController", byName["myForm"].Controller)
	require.Contains(t, byName, "myField")
	assert.True(t, byName["myField"].Linked)
	assert.Equal(t, "FormController", byName["myField"].Controller)
	assert.NotContains(t, byName, "myLow")
	require.Contains(t, byName, "myRepeat")
	assert.Equal(t, 2, byName["myRepeat"].Group)

	text := templates.InspectReport(report)
	assert.Contains(t, text, `<form my-form="">`)
	assert.Contains(t, text, "- myStop priority=100 terminal linked")
	assert.Contains(t, text, "link: none")

	var buf bytes.Buffer
	renderTable(&buf, report)
	assert.Contains(t, buf.String(), "myRepeat")
}

func TestInspectReportsLinkErrors(t *testing.T) {
	set, err := ParseDirectiveSet([]byte("directives:\n  - name: lonely\n    require: [\"^^nobody\"]\n"))
	require.NoError(t, err)

	report, err := Inspect(set, `<div lonely></div>`, log.New(io.Discard))
	require.NoError(t, err)
	assert.True(t, strings.Contains(report.LinkError, "nobody"))
}

func TestBenchDigest(t *testing.T) {
	calc, err := benchDigest(context.Background(), 3, 2, 5, log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 5, calc.Count)

	_, err = benchDigest(context.Background(), 0, 2, 5, log.New(io.Discard))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = benchDigest(ctx, 1, 1, 5, log.New(io.Discard))
	assert.ErrorIs(t, err, context.Canceled)
}
