package compile_test

import (
	"testing"

	"github.com/delaneyj/digestparty/compile"
	"github.com/delaneyj/digestparty/controller"
	"github.com/delaneyj/digestparty/dom"
	"github.com/delaneyj/digestparty/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myController struct {
	controller.Props
	gotMyAttr any
}

type myOtherController struct{}

func myControllerCtor(init func(self *myController, deps []any)) *controller.Constructor {
	return &controller.Constructor{
		New: func() any { return &myController{} },
		Init: func(self any, deps []any) error {
			if init != nil {
				init(self.(*myController), deps)
			}
			return nil
		},
	}
}

func captureCtrl(dst *any) compile.LinkFn {
	return func(_ *scope.Scope, _ []dom.Node, _ *compile.Attributes, ctrl any) error {
		*dst = ctrl
		return nil
	}
}

func TestDirectiveControllers(t *testing.T) {
	t.Run("can be aliased with @ when given in directive attribute", func(t *testing.T) {
		f := newFixture(t)
		invoked := false
		f.ctrls.Register("MyController", myControllerCtor(func(*myController, []any) {
			invoked = true
		}))
		f.directive(t, "myDirective", compile.Directive{Controller: "@"})

		link, _ := f.compile(t, `<div my-directive="MyController"></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.True(t, invoked)
	})

	t.Run("gets scope, element, and attrs through DI", func(t *testing.T) {
		f := newFixture(t)
		var deps []any
		ctor := myControllerCtor(func(_ *myController, d []any) { deps = d })
		ctor.Inject = []string{"$element", "$scope", "$attrs"}
		f.ctrls.Register("MyController", ctor)
		f.directive(t, "myDirective", compile.Directive{Controller: "MyController"})

		link, nodes := f.compile(t, `<div my-directive an-attr="abc"></div>`)
		root := scope.NewRoot()
		require.NoError(t, link(root))

		require.Len(t, deps, 3)
		assert.Equal(t, []dom.Node{nodes[0]}, deps[0])
		assert.Same(t, root, deps[1])
		attrs, ok := deps[2].(*compile.Attributes)
		require.True(t, ok)
		assert.Equal(t, "abc", attrs.Value("anAttr"))
	})

	t.Run("can be attached on the scope", func(t *testing.T) {
		f := newFixture(t)
		f.ctrls.Register("MyController", myControllerCtor(nil))
		f.directive(t, "myDirective", compile.Directive{
			Controller:   "MyController",
			ControllerAs: "myCtrl",
		})

		link, _ := f.compile(t, `<div my-directive></div>`)
		root := scope.NewRoot()
		require.NoError(t, link(root))
		assert.IsType(t, &myController{}, root.Get("myCtrl"))
	})

	t.Run("gets isolate scope as injected $scope", func(t *testing.T) {
		f := newFixture(t)
		var got any
		ctor := myControllerCtor(func(_ *myController, d []any) { got = d[0] })
		ctor.Inject = []string{"$scope"}
		f.ctrls.Register("MyController", ctor)
		f.directive(t, "myDirective", compile.Directive{
			Scope:      compile.ScopeIsolate,
			Controller: "MyController",
		})

		link, _ := f.compile(t, `<div my-directive></div>`)
		root := scope.NewRoot()
		require.NoError(t, link(root))
		require.IsType(t, &scope.Scope{}, got)
		assert.NotSame(t, root, got)
		assert.True(t, got.(*scope.Scope).IsIsolate())
	})

	t.Run("has isolate scope bindings available during construction", func(t *testing.T) {
		f := newFixture(t)
		var gotMyAttr any
		ctor := myControllerCtor(func(_ *myController, d []any) {
			gotMyAttr = d[0].(*scope.Scope).Get("myAttr")
		})
		ctor.Inject = []string{"$scope"}
		f.ctrls.Register("MyController", ctor)
		f.directive(t, "myDirective", compile.Directive{
			Scope:      compile.ScopeIsolate,
			Bindings:   map[string]string{"myAttr": "@myDirective"},
			Controller: "MyController",
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Equal(t, "abc", gotMyAttr)
	})

	t.Run("can bind isolate scope bindings directly to self", func(t *testing.T) {
		f := newFixture(t)
		var gotMyAttr any
		f.ctrls.Register("MyController", myControllerCtor(func(self *myController, _ []any) {
			gotMyAttr = self.Binding("myAttr")
		}))
		var iso *scope.Scope
		f.directive(t, "myDirective", compile.Directive{
			Scope:            compile.ScopeIsolate,
			Bindings:         map[string]string{"myAttr": "@myDirective"},
			Controller:       "MyController",
			BindToController: true,
			Link: func(s *scope.Scope, _ []dom.Node, _ *compile.Attributes, _ any) error {
				iso = s
				return nil
			},
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Equal(t, "abc", gotMyAttr)
		assert.False(t, iso.HasOwn("myAttr"))
	})

	t.Run("can bind iso scope bindings through bindToController", func(t *testing.T) {
		f := newFixture(t)
		var gotMyAttr any
		f.ctrls.Register("MyController", myControllerCtor(func(self *myController, _ []any) {
			gotMyAttr = self.Binding("myAttr")
		}))
		f.directive(t, "myDirective", compile.Directive{
			Scope:              compile.ScopeIsolate,
			Controller:         "MyController",
			ControllerBindings: map[string]string{"myAttr": "@myDirective"},
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Equal(t, "abc", gotMyAttr)
	})

	t.Run("can bind through bindToController without iso scope", func(t *testing.T) {
		f := newFixture(t)
		var gotMyAttr any
		f.ctrls.Register("MyController", myControllerCtor(func(self *myController, _ []any) {
			gotMyAttr = self.Binding("myAttr")
		}))
		f.directive(t, "myDirective", compile.Directive{
			Scope:              compile.ScopeInherit,
			Controller:         "MyController",
			ControllerBindings: map[string]string{"myAttr": "@myDirective"},
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Equal(t, "abc", gotMyAttr)
	})

	t.Run("controller bindings need a bindable controller", func(t *testing.T) {
		f := newFixture(t)
		f.directive(t, "myDirective", compile.Directive{
			Controller:         &controller.Constructor{New: func() any { return &myOtherController{} }},
			ControllerBindings: map[string]string{"myAttr": "@myDirective"},
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		assert.ErrorIs(t, link(scope.NewRoot()), compile.ErrInvalidBinding)
	})

	t.Run("bindToController needs a bindable controller", func(t *testing.T) {
		f := newFixture(t)
		f.directive(t, "myDirective", compile.Directive{
			Scope:            compile.ScopeIsolate,
			Bindings:         map[string]string{"myAttr": "@myDirective"},
			Controller:       &controller.Constructor{New: func() any { return &myOtherController{} }},
			BindToController: true,
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		assert.ErrorIs(t, link(scope.NewRoot()), compile.ErrInvalidBinding)
	})

	t.Run("bindToController needs a controller", func(t *testing.T) {
		f := newFixture(t)
		linked := false
		f.directive(t, "myDirective", compile.Directive{
			Scope:            compile.ScopeIsolate,
			Bindings:         map[string]string{"myAttr": "@myDirective"},
			BindToController: true,
			Link: func(*scope.Scope, []dom.Node, *compile.Attributes, any) error {
				linked = true
				return nil
			},
		})

		link, _ := f.compile(t, `<div my-directive="abc"></div>`)
		assert.ErrorIs(t, link(scope.NewRoot()), compile.ErrInvalidBinding)
		assert.False(t, linked)
	})

	t.Run("unknown controllers fail to link", func(t *testing.T) {
		f := newFixture(t)
		f.directive(t, "myDirective", compile.Directive{Controller: "@"})

		link, _ := f.compile(t, `<div my-directive="NoSuchController"></div>`)
		assert.ErrorIs(t, link(scope.NewRoot()), controller.ErrNotRegistered)
	})
}

func TestRequire(t *testing.T) {
	inline := func() *controller.Constructor {
		return myControllerCtor(nil)
	}

	t.Run("can be required from a sibling directive", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("can be required from multiple sibling directives", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeInherit, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Scope:      compile.ScopeInherit,
			Controller: &controller.Constructor{New: func() any { return &myOtherController{} }},
		})
		f.directive(t, "myThirdDirective", compile.Directive{
			Require: []string{"myDirective", "myOtherDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive my-third-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		ctrls, ok := got.([]any)
		require.True(t, ok)
		require.Len(t, ctrls, 2)
		assert.IsType(t, &myController{}, ctrls[0])
		assert.IsType(t, &myOtherController{}, ctrls[1])
	})

	t.Run("is passed to link functions if there is no require", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{
			Scope:      compile.ScopeIsolate,
			Controller: inline(),
			Link:       captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("is passed through grouped link wrapper", func(t *testing.T) {
		f := newFixture(t)
		var (
			got   any
			group []dom.Node
		)
		f.directive(t, "myDirective", compile.Directive{
			MultiElement: true,
			Scope:        compile.ScopeIsolate,
			Controller:   inline(),
			Link: func(_ *scope.Scope, nodes []dom.Node, _ *compile.Attributes, ctrl any) error {
				got, group = ctrl, nodes
				return nil
			},
		})

		link, _ := f.compile(t, `<div my-directive-start></div><div my-directive-end></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
		assert.Len(t, group, 2)
	})

	t.Run("can be required from a parent directive", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"^myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive><div my-other-directive></div></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("finds from sibling directive when requiring with parent prefix", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"^myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("can be required from a parent directive with ^^", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"^^myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive><div my-other-directive></div></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("does not find from sibling directive when requiring with ^^", func(t *testing.T) {
		f := newFixture(t)
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"^^myDirective"},
			Link:    captureCtrl(new(any)),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive></div>`)
		err := link(scope.NewRoot())
		require.Error(t, err)
		assert.True(t, compile.IsControllerNotFound(err))

		var reqErr *compile.RequireError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "myOtherDirective", reqErr.Directive)
		assert.Equal(t, "^^myDirective", reqErr.Require)
	})

	t.Run("unprefixed require does not look at parents", func(t *testing.T) {
		f := newFixture(t)
		f.directive(t, "myDirective", compile.Directive{Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"myDirective"},
			Link:    captureCtrl(new(any)),
		})

		link, _ := f.compile(t, `<div my-directive><div my-other-directive></div></div>`)
		assert.ErrorIs(t, link(scope.NewRoot()), compile.ErrControllerNotFound)
	})

	t.Run("does not throw on required missing controller when optional", func(t *testing.T) {
		f := newFixture(t)
		got := any("unset")
		f.directive(t, "myDirective", compile.Directive{
			Require: []string{"?noSuchDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Nil(t, got)
	})

	t.Run("allows optional marker after parent marker", func(t *testing.T) {
		f := newFixture(t)
		got := any("unset")
		f.directive(t, "myDirective", compile.Directive{
			Require: []string{"^?noSuchDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.Nil(t, got)
	})

	t.Run("allows optional marker before parent marker", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Scope: compile.ScopeIsolate, Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"?^myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		assert.IsType(t, &myController{}, got)
	})

	t.Run("optional entries keep their position", func(t *testing.T) {
		f := newFixture(t)
		var got any
		f.directive(t, "myDirective", compile.Directive{Controller: inline()})
		f.directive(t, "myOtherDirective", compile.Directive{
			Require: []string{"?noSuchDirective", "myDirective"},
			Link:    captureCtrl(&got),
		})

		link, _ := f.compile(t, `<div my-directive my-other-directive></div>`)
		require.NoError(t, link(scope.NewRoot()))
		ctrls := got.([]any)
		require.Len(t, ctrls, 2)
		assert.Nil(t, ctrls[0])
		assert.IsType(t, &myController{}, ctrls[1])
	})
}
