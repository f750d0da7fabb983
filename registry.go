// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Resolver turns values into Bindings. Resolvers are registered with a
// Registry which asks each of them in turn whether it accepts a value.
type Resolver interface {
	// Accepts reports whether the resolver can bind value for a parameter
	// declared as expected. It must not have side effects.
	Accepts(expected reflect.Type, value any, sc *StatementContext) bool

	// Build returns the Binding for value. It is only called after Accepts
	// returned true for the same arguments, but may still fail if the value
	// cannot be bound.
	Build(expected reflect.Type, value any, sc *StatementContext) (Binding, error)
}

var discardLogger = slog.New(slog.DiscardHandler)

// Registry holds an ordered chain of resolvers. The resolver registered last
// is consulted first and the built-in type table is always consulted last.
//
// Register is not safe for concurrent use. Registries are expected to be
// configured up front and then used for Resolve from any number of
// goroutines.
type Registry struct {
	// resolvers holds the user resolvers, most recently registered first.
	resolvers []Resolver
	logger    *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to trace resolution at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry returns a Registry with no user resolvers.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds res in front of every previously registered resolver.
// Registering the same resolver twice is allowed.
func (r *Registry) Register(res Resolver) {
	r.resolvers = append([]Resolver{res}, r.resolvers...)
}

// Clone returns a Registry with the same resolvers and logger. Resolvers
// registered on the clone are not seen by r and vice versa.
func (r *Registry) Clone() *Registry {
	resolvers := make([]Resolver, len(r.resolvers))
	copy(resolvers, r.resolvers)
	return &Registry{resolvers: resolvers, logger: r.logger}
}

// Resolve returns the Binding built by the first resolver that accepts the
// value. If no registered resolver accepts it the built-in type table is
// used, which accepts anything. Errors from Build are returned unchanged and
// no other resolver is tried. A nil expected type is treated as Any.
func (r *Registry) Resolve(expected reflect.Type, value any, sc *StatementContext) (Binding, error) {
	if expected == nil {
		expected = Any
	}
	for _, res := range r.resolvers {
		if res.Accepts(expected, value, sc) {
			r.log().Debug("resolver accepted argument",
				"resolver", fmt.Sprintf("%T", res),
				"expected", expected.String(),
				"value_type", fmt.Sprintf("%T", value))
			return res.Build(expected, value, sc)
		}
	}
	r.log().Debug("binding argument with built-in types",
		"expected", expected.String(),
		"value_type", fmt.Sprintf("%T", value))
	return builtinResolver{}.Build(expected, value, sc)
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return discardLogger
	}
	return r.logger
}

// Build returns the built-in Binding for value. The expected type is the
// type of value, or Any if value is nil.
func Build(value any) (Binding, error) {
	expected := Any
	if value != nil {
		expected = reflect.TypeOf(value)
	}
	return builtinResolver{}.Build(expected, value, nil)
}
