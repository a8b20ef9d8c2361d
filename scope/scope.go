// Package scope implements a dirty-checking change detection engine.
//
// Scopes form a hierarchy rooted at a single top-level scope. Every scope
// owns an ordered list of watchers; a digest sweeps the hierarchy depth-first
// re-evaluating watchers until no value changes or the sweep bound is hit.
package scope

import (
	"os"

	"github.com/charmbracelet/log"
)

// DefaultTTL is the sweep bound used unless WithTTL overrides it.
const DefaultTTL = 10

// ErrorHandler receives listener errors and failed auto digests.
type ErrorHandler func(from *Scope, err error)

// Option configures a root scope.
type Option func(r *rootState)

// WithTTL bounds the number of sweeps a single digest may run.
func WithTTL(ttl int) Option {
	return func(r *rootState) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithScheduler sets where auto digests run. Defaults to a new EventLoop.
func WithScheduler(s Scheduler) Option {
	return func(r *rootState) {
		r.scheduler = s
	}
}

// WithErrorHandler replaces logging as the sink for isolated errors.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(r *rootState) {
		r.onError = fn
	}
}

// WithLogger sets the logger shared by the whole hierarchy.
func WithLogger(logger *log.Logger) Option {
	return func(r *rootState) {
		r.logger = logger
	}
}

// rootState is shared by every scope of one hierarchy.
type rootState struct {
	top *Scope

	phase        Phase
	asyncQueue   []asyncTask
	postDigest   []func()
	lastDirty    *watcher
	asyncPending bool

	ttl       int
	scheduler Scheduler
	onError   ErrorHandler
	logger    *log.Logger
}

type asyncTask struct {
	scope *Scope
	fn    func(s *Scope)
}

type Scope struct {
	root *rootState

	// parent is the hierarchy parent, proto is where unresolved reads go.
	// They differ for isolate scopes, which have no proto.
	parent   *Scope
	proto    *Scope
	children []*Scope

	props     map[string]any
	watchers  []*watcher
	isolate   bool
	destroyed bool
}

// NewRoot creates the top-level scope of a new hierarchy.
func NewRoot(opts ...Option) *Scope {
	r := &rootState{
		ttl: DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.scheduler == nil {
		r.scheduler = NewEventLoop()
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "digest",
			Level:  log.WarnLevel,
		})
	}

	s := &Scope{
		root:  r,
		props: map[string]any{},
	}
	r.top = s
	return s
}

// New creates an inheriting child scope.
func (s *Scope) New() *Scope {
	return s.NewWithParent(false, s)
}

// NewIsolate creates a child scope that does not see its parent's properties.
func (s *Scope) NewIsolate() *Scope {
	return s.NewWithParent(true, s)
}

// NewWithParent creates a scope whose properties inherit from s but which is
// attached to the hierarchy under parent.
func (s *Scope) NewWithParent(isolate bool, parent *Scope) *Scope {
	if parent == nil {
		parent = s
	}
	child := &Scope{
		root:    s.root,
		parent:  parent,
		props:   map[string]any{},
		isolate: isolate,
	}
	if !isolate {
		child.proto = s
	}
	parent.children = append(parent.children, child)
	return child
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) Root() *Scope {
	return s.root.top
}

func (s *Scope) Children() []*Scope {
	out := make([]*Scope, len(s.children))
	copy(out, s.children)
	return out
}

func (s *Scope) IsIsolate() bool {
	return s.isolate
}

func (s *Scope) Phase() Phase {
	return s.root.phase
}

func (s *Scope) Logger() *log.Logger {
	return s.root.logger
}

// Scheduler returns the host loop auto digests are posted to.
func (s *Scope) Scheduler() Scheduler {
	return s.root.scheduler
}

// Lookup reads name from this scope, falling back through inheriting parents.
func (s *Scope) Lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.proto {
		if v, ok := cur.props[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) Get(name string) any {
	v, _ := s.Lookup(name)
	return v
}

func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// HasOwn reports whether name was assigned on this scope itself.
func (s *Scope) HasOwn(name string) bool {
	_, ok := s.props[name]
	return ok
}

// Set always writes to this scope, shadowing any inherited value.
func (s *Scope) Set(name string, value any) {
	s.props[name] = value
}

func (s *Scope) Delete(name string) {
	delete(s.props, name)
}

// Destroy detaches the scope and its subtree; none of their watchers run again.
func (s *Scope) Destroy() {
	if s.destroyed {
		return
	}
	if s.parent != nil {
		siblings := s.parent.children
		for i, c := range siblings {
			if c == s {
				s.parent.children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	s.markDestroyed()
	s.root.lastDirty = nil
}

func (s *Scope) markDestroyed() {
	if s != s.root.top {
		s.destroyed = true
	}
	for _, w := range s.watchers {
		w.removed = true
	}
	s.watchers = nil
	for _, c := range s.children {
		c.markDestroyed()
	}
	s.children = nil
}

func (s *Scope) IsDestroyed() bool {
	return s.destroyed
}

// everyScope visits s and its descendants depth-first, pre-order, until fn
// returns false.
func (s *Scope) everyScope(fn func(*Scope) bool) bool {
	if s.destroyed || !fn(s) {
		return false
	}
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	for _, c := range children {
		if c.destroyed {
			continue
		}
		if !c.everyScope(fn) {
			return false
		}
	}
	return true
}

func (r *rootState) report(from *Scope, err error) {
	if r.onError != nil {
		r.onError(from, err)
		return
	}
	r.logger.Error("unhandled digest error", "err", err)
}
