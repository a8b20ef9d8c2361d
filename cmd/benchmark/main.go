package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/digestparty/scope"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var profile = flag.String("pgo", "default.pgo", "write a CPU profile here, empty to disable")

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkDigest(false)

	benchmarkDigest(true)
	benchmarkDeepWatch(true)
	benchmarkEvalAsync(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100}
	iters = 100
)

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func newRoot() *scope.Scope {
	return scope.NewRoot(scope.WithErrorHandler(func(from *scope.Scope, err error) {
		log.Panic(err)
	}))
}

// benchmarkDigest nests h scopes below the root and puts w watchers on each,
// all reading the same counter through the scope chain.
func benchmarkDigest(shouldRender bool) {
	tbl := newTable("Digest")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			root := newRoot()
			root.Set("counter", 0)
			cur := root
			for j := 0; j < h; j++ {
				cur = cur.New()
				for i := 0; i < w; i++ {
					cur.Watch(func(s *scope.Scope) any {
						return s.Get("counter")
					}, func(newValue, oldValue any, s *scope.Scope) error {
						return nil
					}, false)
				}
			}
			if err := root.Digest(); err != nil {
				log.Fatal(err)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				root.Set("counter", i+1)
				if err := root.Digest(); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendCalc(tbl, fmt.Sprintf("digest: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkDeepWatch mutates one element of a w sized slice that is watched
// by value.
func benchmarkDeepWatch(shouldRender bool) {
	tbl := newTable("Deep watch")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		root := newRoot()
		items := make([]int, w)
		root.Set("items", items)
		root.Watch(func(s *scope.Scope) any {
			return s.Get("items")
		}, nil, true)
		if err := root.Digest(); err != nil {
			log.Fatal(err)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			items[i%w]++
			if err := root.Digest(); err != nil {
				log.Fatal(err)
			}
			tach.AddTime(time.Since(start))
		}

		appendCalc(tbl, fmt.Sprintf("deep: %d", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkEvalAsync queues w tasks and lets the event loop run the digest
// they schedule.
func benchmarkEvalAsync(shouldRender bool) {
	tbl := newTable("EvalAsync")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		loop := scope.NewEventLoop()
		root := scope.NewRoot(scope.WithScheduler(loop))
		total := 0

		for i := 0; i < iters; i++ {
			start := time.Now()
			for j := 0; j < w; j++ {
				root.EvalAsync(func(s *scope.Scope) {
					total++
				})
			}
			loop.RunPending()
			tach.AddTime(time.Since(start))
		}
		if total != w*iters {
			log.Fatalf("ran %d tasks, expected %d", total, w*iters)
		}

		appendCalc(tbl, fmt.Sprintf("evalAsync: %d", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}
