package templates

import (
	"strconv"
	"strings"
)

type Inspection struct {
	Source       string
	DirectiveSet string
	Registered   []string

	Nodes []NodeReport

	Compiled    int
	Applied     int
	Skipped     int
	CacheHits   int
	CacheMisses int

	LinkError   string
	DigestError string
}

type NodeReport struct {
	Depth      int
	Label      string
	Directives []*AppliedDirective
}

type AppliedDirective struct {
	Name       string
	Priority   int
	Terminal   bool
	Group      int
	Linked     bool
	Controller string
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func flags(d *AppliedDirective) string {
	var parts []string
	parts = append(parts, "priority="+strconv.Itoa(d.Priority))
	if d.Terminal {
		parts = append(parts, "terminal")
	}
	if d.Group > 1 {
		parts = append(parts, "group="+strconv.Itoa(d.Group))
	}
	if d.Linked {
		parts = append(parts, "linked")
	}
	if d.Controller != "" {
		parts = append(parts, "ctrl="+d.Controller)
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
