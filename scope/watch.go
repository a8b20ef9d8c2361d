package scope

type WatchFunc func(s *Scope) any

// ListenerFunc is called with the new and previous value of a watch. On the
// first call both arguments hold the new value.
type ListenerFunc func(newValue, oldValue any, s *Scope) error

type GroupListenerFunc func(newValues, oldValues []any, s *Scope) error

type uninitialized struct{ _ byte }

// initWatchVal marks a watcher that has never been evaluated. It is a
// pointer to an unexported type so no caller value can ever equal it.
var initWatchVal any = &uninitialized{}

type watcher struct {
	watchFn  WatchFunc
	listener ListenerFunc
	deep     bool
	last     any
	removed  bool
}

func (w *watcher) changed(newValue any) bool {
	if w.last == initWatchVal {
		return true
	}
	if w.deep {
		return !deepEqual(newValue, w.last)
	}
	return !identical(newValue, w.last)
}

// Watch registers watchFn on s. The listener may be nil. With deep set the
// value is compared structurally and a copy is kept between sweeps. The
// returned func removes the watcher and is safe to call during a digest.
func (s *Scope) Watch(watchFn WatchFunc, listener ListenerFunc, deep bool) (deregister func()) {
	if watchFn == nil {
		panic("scope: nil watch function")
	}
	w := &watcher{
		watchFn:  watchFn,
		listener: listener,
		deep:     deep,
		last:     initWatchVal,
	}
	s.watchers = append(s.watchers, w)
	s.root.lastDirty = nil

	return func() {
		if w.removed {
			return
		}
		w.removed = true
		s.root.lastDirty = nil
	}
}

// WatchGroup calls listener at most once per sweep with the current values
// of all watchFns whenever any of them changed.
func (s *Scope) WatchGroup(watchFns []WatchFunc, listener GroupListenerFunc) (deregister func()) {
	newValues := make([]any, len(watchFns))
	oldValues := make([]any, len(watchFns))

	if len(watchFns) == 0 {
		shouldCall := true
		s.EvalAsync(func(s *Scope) {
			if shouldCall {
				if err := listener(newValues, newValues, s); err != nil {
					s.root.report(s, &ListenerError{Err: err})
				}
			}
		})
		return func() {
			shouldCall = false
		}
	}

	last := make([]any, len(watchFns))
	for i := range last {
		last[i] = initWatchVal
	}
	changes := 0
	firstRun := true

	return s.Watch(func(s *Scope) any {
		changed := false
		for i, fn := range watchFns {
			v := fn(s)
			if last[i] != initWatchVal && identical(v, last[i]) {
				continue
			}
			if last[i] == initWatchVal {
				oldValues[i] = v
			} else {
				oldValues[i] = last[i]
			}
			last[i] = v
			newValues[i] = v
			changed = true
		}
		if changed {
			changes++
		}
		return changes
	}, func(_, _ any, s *Scope) error {
		if firstRun {
			firstRun = false
			return listener(newValues, newValues, s)
		}
		return listener(newValues, oldValues, s)
	}, false)
}

// compactWatchers drops deregistered watchers. It is only called between
// watcher loops so indexes stay valid while a scope is being swept.
func (s *Scope) compactWatchers() {
	n := 0
	for _, w := range s.watchers {
		if !w.removed {
			s.watchers[n] = w
			n++
		}
	}
	for i := n; i < len(s.watchers); i++ {
		s.watchers[i] = nil
	}
	s.watchers = s.watchers[:n]
}
