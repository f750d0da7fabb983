// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	. "gopkg.in/check.v1"

	"github.com/canonical/sqlbind"
	"github.com/canonical/sqlbind/internal/targettest"
)

// constBinding binds a fixed string.
type constBinding string

func (b constBinding) Apply(position int, t sqlbind.Target, _ *sqlbind.StatementContext) error {
	return t.SetString(position, string(b))
}

// stubResolver accepts values for which accept returns true and records the
// calls made on it.
type stubResolver struct {
	name    string
	accept  func(expected reflect.Type, value any) bool
	err     error
	built   int
	lastCtx *sqlbind.StatementContext
}

func (r *stubResolver) Accepts(expected reflect.Type, value any, sc *sqlbind.StatementContext) bool {
	r.lastCtx = sc
	return r.accept(expected, value)
}

func (r *stubResolver) Build(expected reflect.Type, value any, sc *sqlbind.StatementContext) (sqlbind.Binding, error) {
	r.built++
	r.lastCtx = sc
	if r.err != nil {
		return nil, r.err
	}
	return constBinding(r.name), nil
}

func acceptAll(reflect.Type, any) bool { return true }

func acceptType(t reflect.Type) func(reflect.Type, any) bool {
	return func(expected reflect.Type, _ any) bool { return expected == t }
}

func acceptValue(t reflect.Type) func(reflect.Type, any) bool {
	return func(_ reflect.Type, value any) bool { return reflect.TypeOf(value) == t }
}

func (s *PackageSuite) TestResolverPrecedence(c *C) {
	a := &stubResolver{name: "A", accept: acceptAll}
	b := &stubResolver{name: "B", accept: acceptAll}
	registry := sqlbind.NewRegistry()
	registry.Register(a)
	registry.Register(b)

	inputs := []any{nil, 1, "x", int64(3), Person{}, Hearts}
	for _, in := range inputs {
		call := apply(c, registry, sqlbind.Any, in)
		c.Check(call.Value, Equals, "B")
	}
	c.Check(a.built, Equals, 0)
	c.Check(b.built, Equals, len(inputs))
}

func (s *PackageSuite) TestResolverMatchingByExpectedType(c *C) {
	weird := reflect.TypeFor[Person]()
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "weird", accept: acceptType(weird)})

	call := apply(c, registry, weird, Person{ID: 1})
	c.Check(call, DeepEquals, targettest.Call{Method: "SetString", Position: 1, Value: "weird"})

	// Values declared with another type still reach the built-ins.
	call = apply(c, registry, sqlbind.Any, int64(3))
	c.Check(call, DeepEquals, targettest.Call{Method: "SetLong", Position: 1, Value: int64(3)})
}

func (s *PackageSuite) TestResolverMatchingByValue(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "weird", accept: acceptValue(reflect.TypeFor[Person]())})

	call := apply(c, registry, sqlbind.Any, Person{ID: 1})
	c.Check(call.Value, Equals, "weird")

	// A nil value has no type and falls through.
	call = apply(c, registry, sqlbind.Any, nil)
	c.Check(call, DeepEquals, targettest.Call{Method: "SetNull", Position: 1, Value: sqlbind.TypeNull})
}

func (s *PackageSuite) TestResolverOverridesBuiltin(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "override", accept: acceptValue(reflect.TypeFor[string]())})

	call := apply(c, registry, sqlbind.Any, "I am a String")
	c.Check(call.Value, Equals, "override")
}

func (s *PackageSuite) TestBuildErrorStopsResolution(c *C) {
	cause := errors.New("malformed value")
	failing := &stubResolver{name: "failing", accept: acceptAll, err: cause}
	registry := sqlbind.NewRegistry()
	registry.Register(failing)

	b, err := registry.Resolve(sqlbind.Any, "x", nil)
	c.Check(b, IsNil)
	c.Check(err, Equals, cause)
	c.Check(failing.built, Equals, 1)
}

func (s *PackageSuite) TestFallbackTotality(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "never", accept: func(reflect.Type, any) bool { return false }})

	inputs := []any{nil, struct{}{}, make(chan int), Person{}, MyInt32(1), map[string]int{}, Hearts}
	types := []reflect.Type{nil, sqlbind.Any, reflect.TypeFor[Person](), reflect.TypeFor[chan int]()}
	for _, t := range types {
		for _, in := range inputs {
			if t != nil && t != sqlbind.Any && in != nil {
				continue
			}
			_, err := registry.Resolve(t, in, nil)
			c.Check(err, IsNil, Commentf("%v %#v", t, in))
		}
	}
}

func (s *PackageSuite) TestStatementContextPassedThrough(c *C) {
	sc := sqlbind.NewStatementContext(map[string]any{"dialect": "sqlite"})
	res := &stubResolver{name: "ctx", accept: acceptAll}
	registry := sqlbind.NewRegistry()
	registry.Register(res)

	_, err := registry.Resolve(sqlbind.Any, 1, sc)
	c.Assert(err, IsNil)
	c.Check(res.lastCtx, Equals, sc)
	c.Check(sc.Attribute("dialect"), Equals, "sqlite")
	c.Check(sc.Attribute("missing"), IsNil)

	var nilCtx *sqlbind.StatementContext
	c.Check(nilCtx.Attribute("dialect"), IsNil)
}

func (s *PackageSuite) TestStatementContextCopiesAttributes(c *C) {
	attrs := map[string]any{"a": 1}
	sc := sqlbind.NewStatementContext(attrs)
	attrs["a"] = 2
	c.Check(sc.Attribute("a"), Equals, 1)
}

func (s *PackageSuite) TestRegistryClone(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "base", accept: acceptAll})

	clone := registry.Clone()
	clone.Register(&stubResolver{name: "clone", accept: acceptAll})

	c.Check(apply(c, registry, sqlbind.Any, 1).Value, Equals, "base")
	c.Check(apply(c, clone, sqlbind.Any, 1).Value, Equals, "clone")

	registry.Register(&stubResolver{name: "later", accept: acceptAll})
	c.Check(apply(c, registry, sqlbind.Any, 1).Value, Equals, "later")
	c.Check(apply(c, clone, sqlbind.Any, 1).Value, Equals, "clone")
}

func (s *PackageSuite) TestRegistryDuplicateRegistration(c *C) {
	res := &stubResolver{name: "dup", accept: acceptAll}
	registry := sqlbind.NewRegistry()
	registry.Register(res)
	registry.Register(res)

	c.Check(apply(c, registry, sqlbind.Any, 1).Value, Equals, "dup")
	c.Check(res.built, Equals, 1)
}

func (s *PackageSuite) TestRegistryLogger(c *C) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	registry := sqlbind.NewRegistry(sqlbind.WithLogger(logger))
	registry.Register(&stubResolver{name: "str", accept: acceptValue(reflect.TypeFor[string]())})

	_, err := registry.Resolve(sqlbind.Any, "x", nil)
	c.Assert(err, IsNil)
	_, err = registry.Resolve(reflect.TypeFor[*int32](), nil, nil)
	c.Assert(err, IsNil)

	c.Check(buf.String(), Matches, `(?s).*msg="resolver accepted argument" resolver=\*sqlbind_test.stubResolver expected="interface \{\}" value_type=string.*`)
	c.Check(buf.String(), Matches, `(?s).*msg="binding argument with built-in types" expected=\*int32 value_type=<nil>.*`)
}

// typeResolver binds values of a single type to a fixed string. It holds no
// state so it can be shared between goroutines.
type typeResolver struct {
	t    reflect.Type
	name string
}

func (r typeResolver) Accepts(_ reflect.Type, value any, _ *sqlbind.StatementContext) bool {
	return reflect.TypeOf(value) == r.t
}

func (r typeResolver) Build(reflect.Type, any, *sqlbind.StatementContext) (sqlbind.Binding, error) {
	return constBinding(r.name), nil
}

func (s *PackageSuite) TestRegistryConcurrentResolve(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(typeResolver{t: reflect.TypeFor[string](), name: "str"})

	const workers = 8
	results := make([][2]targettest.Call, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, j := range []int{0, 1} {
				var value any = "x"
				if j == 1 {
					value = int64(i)
				}
				b, err := registry.Resolve(sqlbind.Any, value, nil)
				if err != nil {
					errs[i] = err
					return
				}
				var rec targettest.Recorder
				if err := b.Apply(1, &rec, nil); err != nil {
					errs[i] = err
					return
				}
				results[i][j] = rec.Calls[0]
			}
		}()
	}
	wg.Wait()

	for i := range workers {
		c.Assert(errs[i], IsNil)
		c.Check(results[i][0], DeepEquals, targettest.Call{Method: "SetString", Position: 1, Value: "str"})
		c.Check(results[i][1], DeepEquals, targettest.Call{Method: "SetLong", Position: 1, Value: int64(i)})
	}
}
