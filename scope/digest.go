package scope

// lastDirtyReport is how many of the final sweeps before the TTL keep the
// dirty values for DigestError.
const lastDirtyReport = 5

// Digest evaluates the watchers of s and its descendants until none of them
// changes, running deferred tasks along the way. Post digest callbacks run
// once the loop has converged.
func (s *Scope) Digest() error {
	r := s.root
	if err := r.beginPhase(PhaseDigest); err != nil {
		return err
	}
	err := func() error {
		defer r.clearPhase()
		return s.digestLoop()
	}()
	if err != nil {
		r.logger.Warn("digest aborted", "err", err)
		return err
	}

	for len(r.postDigest) > 0 {
		fn := r.postDigest[0]
		r.postDigest = r.postDigest[1:]
		fn()
	}
	return nil
}

func (s *Scope) digestLoop() error {
	r := s.root
	r.lastDirty = nil

	var recent []any
	sweeps := 0
	for {
		r.drainAsync()

		var onDirty func(*watcher)
		if sweeps >= r.ttl-lastDirtyReport {
			onDirty = func(w *watcher) {
				recent = append(recent, w.last)
				if len(recent) > lastDirtyReport {
					recent = recent[1:]
				}
			}
		}
		dirty := s.digestOnce(onDirty)
		sweeps++

		if !dirty && len(r.asyncQueue) == 0 {
			r.logger.Debug("digest converged", "sweeps", sweeps)
			return nil
		}
		if sweeps >= r.ttl {
			if dirty {
				return &DigestError{Sweeps: sweeps, Last: recent, err: ErrNonConverging}
			}
			return &DigestError{Sweeps: sweeps, err: ErrAsyncNonConverging}
		}
	}
}

// digestOnce runs a single sweep and reports whether any watcher was dirty.
func (s *Scope) digestOnce(onDirty func(*watcher)) (dirty bool) {
	r := s.root
	s.everyScope(func(sc *Scope) bool {
		sc.compactWatchers()
		for i := 0; i < len(sc.watchers); i++ {
			w := sc.watchers[i]
			if w.removed {
				continue
			}
			newValue := w.watchFn(sc)
			if w.removed {
				continue
			}
			if !w.changed(newValue) {
				if r.lastDirty == w {
					return false
				}
				continue
			}

			dirty = true
			r.lastDirty = w
			oldValue := w.last
			if oldValue == initWatchVal {
				oldValue = newValue
			}
			if w.deep {
				w.last = deepCopy(newValue)
			} else {
				w.last = newValue
			}
			if onDirty != nil {
				onDirty(w)
			}

			if w.listener != nil {
				if err := w.listener(newValue, oldValue, sc); err != nil {
					r.report(sc, &ListenerError{NewValue: newValue, OldValue: oldValue, Err: err})
				}
			}
			r.drainAsync()
		}
		return true
	})
	return dirty
}

func (r *rootState) drainAsync() {
	for len(r.asyncQueue) > 0 {
		task := r.asyncQueue[0]
		r.asyncQueue[0] = asyncTask{}
		r.asyncQueue = r.asyncQueue[1:]
		task.fn(task.scope)
	}
}

// Eval runs expr against s and returns its result.
func (s *Scope) Eval(expr func(s *Scope, args ...any) any, args ...any) any {
	return expr(s, args...)
}

// EvalAsync queues fn to run later in the current or next digest. Outside a
// digest it also posts a single digest of the root to the scheduler.
func (s *Scope) EvalAsync(fn func(s *Scope)) {
	r := s.root
	if r.phase == PhaseIdle && !r.asyncPending {
		r.asyncPending = true
		r.scheduler.Schedule(func() {
			r.asyncPending = false
			if len(r.asyncQueue) == 0 {
				return
			}
			if err := r.top.Digest(); err != nil {
				r.report(r.top, err)
			}
		})
	}
	r.asyncQueue = append(r.asyncQueue, asyncTask{scope: s, fn: fn})
}

// Apply runs fn in the apply phase and then digests from the root, whether
// or not fn panics.
func (s *Scope) Apply(fn func(s *Scope)) (err error) {
	r := s.root
	if err := r.beginPhase(PhaseApply); err != nil {
		return err
	}
	defer func() {
		r.clearPhase()
		if derr := r.top.Digest(); derr != nil && err == nil {
			err = derr
		}
	}()
	if fn != nil {
		fn(s)
	}
	return nil
}

// PostDigest queues fn to run once after the next digest converges.
func (s *Scope) PostDigest(fn func()) {
	s.root.postDigest = append(s.root.postDigest, fn)
}
