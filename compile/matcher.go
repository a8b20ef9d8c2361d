package compile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/digestparty/dom"
)

var commentRegexp = regexp.MustCompile(`^\s*directive:\s*([\d\w\-_]+)`)

type candidate struct {
	name       string
	mode       Mode
	start, end string
}

type cacheEntry struct {
	signature  string
	directives []*Directive
}

// candidates lists every name/mode pair the node offers and fills attrs.
func (c *Compiler) candidates(node dom.Node, attrs *Attributes) []candidate {
	var out []candidate
	switch node.Type() {
	case dom.ElementNode:
		out = append(out, candidate{name: Normalize(node.Name()), mode: ModeElement})

		for _, attr := range node.Attributes() {
			name := strings.ToLower(attr.Name)
			normalized := Normalize(name)
			if shadowed, ok := shadowedAttr(normalized); ok {
				name = shadowed
				normalized = Normalize(name)
			}

			var start, end string
			if strings.HasSuffix(normalized, "Start") && c.provider.isMultiElement(strings.TrimSuffix(normalized, "Start")) {
				start = name
				end = name[:len(name)-5] + "end"
				name = name[:len(name)-6]
				normalized = Normalize(name)
			}

			out = append(out, candidate{name: normalized, mode: ModeAttribute, start: start, end: end})
			attrs.add(normalized, attr.Name, attr.Value)
		}

		for _, class := range node.Classes() {
			out = append(out, candidate{name: Normalize(class), mode: ModeClass})
		}

	case dom.CommentNode:
		if m := commentRegexp.FindStringSubmatch(node.Text()); m != nil {
			out = append(out, candidate{name: Normalize(m[1]), mode: ModeComment})
		}
	}
	return out
}

// Collect returns the directives matching node in application order along
// with its normalized attributes.
func (c *Compiler) Collect(node dom.Node) ([]*Directive, *Attributes, error) {
	attrs := newAttributes()
	cands := c.candidates(node, attrs)

	var (
		key uint64
		sig string
	)
	if c.useCache {
		if c.cacheGen != c.provider.generation {
			clear(c.cache)
			c.cacheGen = c.provider.generation
		}
		sig = signature(node.Type(), cands)
		key = xxhash.Sum64String(sig)
		if e, ok := c.cache[key]; ok && e.signature == sig {
			c.stats.CacheHits++
			return e.directives, attrs, nil
		}
	}

	var dirs []*Directive
	for _, cand := range cands {
		found, err := c.provider.Lookup(cand.name)
		if err != nil {
			return nil, nil, err
		}
		for _, d := range found {
			if !d.Restrict.Contains(cand.mode) {
				continue
			}
			if cand.start != "" {
				d = d.withGroup(cand.start, cand.end)
			}
			dirs = append(dirs, d)
		}
	}
	sort.SliceStable(dirs, func(i, j int) bool {
		return byPriority(dirs[i], dirs[j])
	})

	if c.useCache {
		c.stats.CacheMisses++
		c.cache[key] = cacheEntry{signature: sig, directives: dirs}
	}
	return dirs, attrs, nil
}

func byPriority(a, b *Directive) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Index < b.Index
}

func signature(t dom.NodeType, cands []candidate) string {
	var sb strings.Builder
	sb.WriteByte(byte(t))
	for _, cand := range cands {
		sb.WriteByte(0)
		sb.WriteByte(byte(cand.mode))
		sb.WriteString(cand.name)
		if cand.start != "" {
			sb.WriteByte(1)
			sb.WriteString(cand.start)
			sb.WriteByte(1)
			sb.WriteString(cand.end)
		}
	}
	return sb.String()
}
