package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/compile"
	"github.com/delaneyj/digestparty/dom"
	"github.com/delaneyj/digestparty/inject"
	"github.com/delaneyj/digestparty/scope"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	log.Print("Starting compile benchmark, please wait...")
	defer log.Print("Finished compile benchmark")

	perfTestCfgs := []benchmarkTestConfig{
		{
			name:          "flat list",
			width:         1000,
			depth:         1,
			directives:    2,
			perNode:       1,
			iterations:    50,
			expectedNodes: 1001,
		},
		{
			name:          "nested form",
			width:         4,
			depth:         6,
			directives:    8,
			perNode:       3,
			iterations:    50,
			expectedNodes: 5461,
		},
		{
			name:          "wide tree",
			width:         10,
			depth:         4,
			directives:    16,
			perNode:       4,
			iterations:    20,
			expectedNodes: 11111,
		},
		{
			name:          "deep chain",
			width:         1,
			depth:         500,
			directives:    4,
			perNode:       2,
			iterations:    50,
			expectedNodes: 501,
		},
		{
			name:          "wide tree, no cache",
			width:         10,
			depth:         4,
			directives:    16,
			perNode:       4,
			iterations:    20,
			expectedNodes: 11111,
			noCache:       true,
		},
	}

	type results struct {
		nodes    int
		linked   int64
		duration time.Duration
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "size", "directives", "per node",
		"nTimes", "nodes", "links", "cache", "time", "nodes/ms",
	})

	testRepeats := 5
	for _, cfg := range perfTestCfgs {
		log.Printf("Running '%s' config", cfg.name)
		linked := new(int64)
		tree := benchmarkMakeTree(cfg.width, cfg.depth, cfg.directives, cfg.perNode)

		runOnce := func() compile.Stats {
			return benchmarkRunCompile(&cfg, tree, linked)
		}
		// run once to warm up
		runOnce()

		bestResult := &results{
			duration: time.Hour,
		}

		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, testRepeats, (i+1)*100/testRepeats)
			*linked = 0
			start := time.Now()
			stats := runOnce()
			duration := time.Since(start)

			if duration < bestResult.duration {
				bestResult.duration = duration
				bestResult.nodes = stats.Nodes
				bestResult.linked = *linked
			}
		}

		if cfg.expectedNodes != 0 && bestResult.nodes != cfg.expectedNodes*cfg.iterations {
			log.Fatalf("'%s' compiled %d nodes, expected %d", cfg.name, bestResult.nodes, cfg.expectedNodes*cfg.iterations)
		}

		updateRate := float64(bestResult.nodes) / (float64(bestResult.duration) / float64(time.Millisecond))
		cache := "on"
		if cfg.noCache {
			cache = "off"
		}

		table.Append([]string{
			cfg.name, // test
			fmt.Sprintf("%dx%d", cfg.width, cfg.depth), // size
			fmt.Sprint(cfg.directives),                 // directives
			fmt.Sprint(cfg.perNode),                    // per node
			humanize.Comma(int64(cfg.iterations)),      // nTimes
			humanize.Comma(int64(bestResult.nodes)),    // nodes
			humanize.Comma(bestResult.linked),          // links
			cache,                                      // cache
			fmt.Sprint(bestResult.duration),            // time
			humanize.Comma(int64(updateRate)),          // nodes/ms
		})
	}
	table.Render() // Send output
}

type benchmarkTestConfig struct {
	name          string // friendly name for the test, should be unique
	width         int    // children per element
	depth         int    // levels below the root element
	directives    int    // registered directives
	perNode       int    // directive attributes on each element
	iterations    int    // compile+link passes per run
	expectedNodes int    // nodes per pass, for verification
	noCache       bool
}

// benchmarkMakeTree builds a full tree with width children per element,
// depth levels deep, every element carrying perNode directive attributes.
func benchmarkMakeTree(width, depth, directives, perNode int) *dom.BasicNode {
	next := 0
	attrs := func() []dom.Attribute {
		out := make([]dom.Attribute, 0, perNode+1)
		for i := 0; i < perNode; i++ {
			out = append(out, dom.A(directiveAttr(next%directives), fmt.Sprint(next)))
			next++
		}
		out = append(out, dom.A("class", "item"))
		return out
	}

	var build func(level int) *dom.BasicNode
	build = func(level int) *dom.BasicNode {
		el := dom.NewElement("div", attrs()...)
		if level < depth {
			for i := 0; i < width; i++ {
				el.Append(build(level + 1))
			}
		}
		return el
	}
	return build(0)
}

func directiveAttr(i int) string {
	return fmt.Sprintf("bench-dir-%d", i)
}

func benchmarkRunCompile(cfg *benchmarkTestConfig, tree dom.Node, linked *int64) compile.Stats {
	provider := compile.NewProvider(inject.New())
	for i := 0; i < cfg.directives; i++ {
		d := compile.Directive{
			Priority: i % 3,
			Link: func(*scope.Scope, []dom.Node, *compile.Attributes, any) error {
				*linked++
				return nil
			},
		}
		if i%4 == 0 {
			d.Scope = compile.ScopeInherit
		}
		if err := provider.Directive(compile.Normalize(directiveAttr(i)), compile.Define(d)); err != nil {
			log.Fatal(err)
		}
	}

	logger := charmlog.New(io.Discard)
	c := compile.New(provider, nil, compile.WithLogger(logger), compile.WithMatchCache(!cfg.noCache))
	for i := 0; i < cfg.iterations; i++ {
		link, err := c.Compile(tree)
		if err != nil {
			log.Fatal(err)
		}
		root := scope.NewRoot(scope.WithLogger(logger))
		if err := link(root); err != nil {
			log.Fatal(err)
		}
	}
	return c.Stats()
}
