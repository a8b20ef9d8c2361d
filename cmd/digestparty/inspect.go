package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/cmd/digestparty/templates"
	"github.com/delaneyj/digestparty/compile"
	"github.com/delaneyj/digestparty/controller"
	"github.com/delaneyj/digestparty/dom"
	"github.com/delaneyj/digestparty/inject"
	"github.com/delaneyj/digestparty/scope"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Inspect compiles html against set, links it to a fresh root scope and runs
// one digest. Compile failures are returned, link and digest failures are
// part of the report.
func Inspect(set *DirectiveSet, html string, logger *log.Logger) (*templates.Inspection, error) {
	nodes, err := dom.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	inj := inject.New()
	provider := compile.NewProvider(inj)
	ctrls := controller.NewRegistry(inj)

	applied := map[dom.Node][]*templates.AppliedDirective{}
	hook := func(spec DirectiveSpec) compile.CompileFn {
		return func(group []dom.Node, _ *compile.Attributes) (compile.LinkFn, error) {
			a := &templates.AppliedDirective{
				Name:     spec.Name,
				Priority: spec.Priority,
				Terminal: spec.Terminal,
				Group:    len(group),
			}
			applied[group[0]] = append(applied[group[0]], a)
			return func(_ *scope.Scope, _ []dom.Node, _ *compile.Attributes, ctrl any) error {
				a.Linked = true
				a.Controller = controllerLabel(ctrl)
				return nil
			}, nil
		}
	}
	if err := set.Register(provider, ctrls, hook); err != nil {
		return nil, err
	}

	c := compile.New(provider, ctrls, compile.WithLogger(logger))
	link, err := c.Compile(nodes...)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	report := &templates.Inspection{Registered: provider.Names()}
	root := scope.NewRoot(scope.WithLogger(logger))
	if err := link(root); err != nil {
		logger.Warn("link failed", "error", err)
		report.LinkError = err.Error()
	} else if err := root.Digest(); err != nil {
		report.DigestError = err.Error()
	}

	var walk func(nodes []dom.Node, depth int)
	walk = func(nodes []dom.Node, depth int) {
		for _, n := range nodes {
			if dirs := applied[n]; len(dirs) > 0 {
				report.Nodes = append(report.Nodes, templates.NodeReport{
					Depth:      depth,
					Label:      dom.StartTag(n),
					Directives: dirs,
				})
				report.Applied += len(dirs)
			}
			walk(n.Children(), depth+1)
		}
	}
	walk(nodes, 0)

	stats := c.Stats()
	report.Compiled = stats.Nodes
	report.Skipped = stats.Skipped
	report.CacheHits = stats.CacheHits
	report.CacheMisses = stats.CacheMisses
	return report, nil
}

func controllerLabel(ctrl any) string {
	switch ctrl := ctrl.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return ctrl.String()
	case []any:
		labels := make([]string, len(ctrl))
		for i, c := range ctrl {
			labels[i] = controllerLabel(c)
			if labels[i] == "" {
				labels[i] = "nil"
			}
		}
		return strings.Join(labels, ",")
	default:
		return fmt.Sprintf("%T", ctrl)
	}
}

func renderTable(w io.Writer, r *templates.Inspection) {
	tbl := table.NewWriter()
	tbl.SetTitle(r.Source)
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"node", "directive", "priority", "terminal", "group", "linked", "controller"})
	for _, n := range r.Nodes {
		for _, d := range n.Directives {
			tbl.AppendRow(table.Row{
				strings.Repeat("  ", n.Depth) + n.Label,
				d.Name,
				d.Priority,
				d.Terminal,
				d.Group,
				d.Linked,
				d.Controller,
			})
		}
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d nodes", r.Compiled),
		fmt.Sprintf("%d applied", r.Applied),
		fmt.Sprintf("%d skipped", r.Skipped),
	})
	tbl.Render()
}
