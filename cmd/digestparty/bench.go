package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/delaneyj/digestparty/scope"
	"github.com/jamiealquiza/tachymeter"
)

// benchDigest times iters digests of a root with depth nested scopes and
// width watchers on each of them.
func benchDigest(ctx context.Context, width, depth, iters int, logger *log.Logger) (*tachymeter.Metrics, error) {
	if width < 1 || depth < 1 || iters < 1 {
		return nil, fmt.Errorf("width, depth and iterations must be positive")
	}

	root := scope.NewRoot(scope.WithLogger(logger))
	root.Set("counter", 0)
	cur := root
	for j := 0; j < depth; j++ {
		cur = cur.New()
		for i := 0; i < width; i++ {
			cur.Watch(func(s *scope.Scope) any {
				return s.Get("counter")
			}, nil, false)
		}
	}
	if err := root.Digest(); err != nil {
		return nil, err
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		root.Set("counter", i+1)
		if err := root.Digest(); err != nil {
			return nil, err
		}
		tach.AddTime(time.Since(start))
	}
	logger.Debug("digest benchmark finished", "width", width, "depth", depth, "iterations", iters)
	return tach.Calc(), nil
}
