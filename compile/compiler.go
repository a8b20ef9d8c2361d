package compile

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/controller"
	"github.com/delaneyj/digestparty/dom"
	"github.com/delaneyj/digestparty/scope"
)

// LinkFunc links a compiled tree against a scope.
type LinkFunc func(s *scope.Scope) error

type Option func(*Compiler)

func WithLogger(logger *log.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMatchCache toggles caching of match results per node signature. It is
// on by default.
func WithMatchCache(enabled bool) Option {
	return func(c *Compiler) {
		c.useCache = enabled
	}
}

// Stats counts compiler work since the compiler was created.
type Stats struct {
	Nodes       int
	Directives  int
	Skipped     int
	CacheHits   int
	CacheMisses int
}

type Compiler struct {
	provider    *Provider
	controllers *controller.Registry
	logger      *log.Logger

	useCache bool
	cache    map[uint64]cacheEntry
	cacheGen uint64

	stats Stats
}

// New creates a compiler for the directives registered on p. ctrls may be
// nil when no directive names a controller by string.
func New(p *Provider, ctrls *controller.Registry, opts ...Option) *Compiler {
	if ctrls == nil {
		ctrls = controller.NewRegistry(p.Injector())
	}
	c := &Compiler{
		provider:    p,
		controllers: ctrls,
		useCache:    true,
		cache:       map[uint64]cacheEntry{},
		cacheGen:    p.generation,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "compile",
			Level:  log.WarnLevel,
		})
	}
	return c
}

func (c *Compiler) Stats() Stats {
	return c.stats
}

// applied is one directive compiled on one node or node group.
type applied struct {
	directive *Directive
	nodes     []dom.Node
	link      LinkFn
}

type nodeLink struct {
	node     dom.Node
	attrs    *Attributes
	applied  []applied
	inherit  bool
	isolate  *Directive
	terminal bool
	children []*nodeLink
}

// Compile compiles nodes and their descendants. The returned LinkFunc can
// be called once per scope the tree should be linked against.
func (c *Compiler) Compile(nodes ...dom.Node) (LinkFunc, error) {
	links, err := c.compileNodes(nodes)
	if err != nil {
		return nil, err
	}
	return func(s *scope.Scope) error {
		return c.linkNodes(links, s)
	}, nil
}

func (c *Compiler) compileNodes(nodes []dom.Node) ([]*nodeLink, error) {
	links := make([]*nodeLink, 0, len(nodes))
	for _, node := range nodes {
		nl, err := c.compileNode(node)
		if err != nil {
			return nil, err
		}
		if !nl.terminal {
			if children := node.Children(); len(children) > 0 {
				if nl.children, err = c.compileNodes(children); err != nil {
					return nil, err
				}
			}
		}
		links = append(links, nl)
	}
	return links, nil
}

func (c *Compiler) compileNode(node dom.Node) (*nodeLink, error) {
	c.stats.Nodes++
	directives, attrs, err := c.Collect(node)
	if err != nil {
		return nil, err
	}

	nl := &nodeLink{node: node, attrs: attrs}
	terminalPriority := math.MinInt
	for i, d := range directives {
		if d.Priority < terminalPriority {
			c.stats.Skipped += len(directives) - i
			c.logger.Debug("skipping directives below terminal priority",
				"node", node.Name(), "priority", terminalPriority, "skipped", len(directives)-i)
			break
		}

		group := []dom.Node{node}
		if d.start != "" {
			if group, err = groupScan(node, d.start, d.end); err != nil {
				return nil, fmt.Errorf("directive %s: %w", d.Name, err)
			}
		}

		switch d.Scope {
		case ScopeIsolate:
			if nl.isolate != nil || nl.inherit {
				return nil, fmt.Errorf("%w: %s on <%s>", ErrMultipleIsolate, d.Name, node.Name())
			}
			nl.isolate = d
		case ScopeInherit:
			if nl.isolate != nil {
				return nil, fmt.Errorf("%w: %s on <%s>", ErrMultipleIsolate, d.Name, node.Name())
			}
			nl.inherit = true
		}

		link := d.Link
		if d.Compile != nil {
			if link, err = d.Compile(group, attrs); err != nil {
				return nil, fmt.Errorf("compile %s: %w", d.Name, err)
			}
		}
		nl.applied = append(nl.applied, applied{directive: d, nodes: group, link: link})
		c.stats.Directives++

		if d.Terminal {
			nl.terminal = true
			terminalPriority = d.Priority
		}
	}
	return nl, nil
}

// groupScan collects the siblings from node through the end marker that
// closes it, counting nested start markers.
func groupScan(node dom.Node, startAttr, endAttr string) ([]dom.Node, error) {
	if !node.HasAttr(startAttr) {
		return []dom.Node{node}, nil
	}
	var (
		nodes []dom.Node
		depth int
	)
	for cur := node; ; cur = cur.NextSibling() {
		if cur == nil {
			return nil, fmt.Errorf("%w: %s without %s", ErrUnterminatedGroup, startAttr, endAttr)
		}
		if cur.Type() == dom.ElementNode {
			if cur.HasAttr(startAttr) {
				depth++
			} else if cur.HasAttr(endAttr) {
				depth--
			}
		}
		nodes = append(nodes, cur)
		if depth == 0 {
			return nodes, nil
		}
	}
}
