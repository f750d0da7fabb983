// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"reflect"

	"github.com/canonical/sqlbind/internal/typeinfo"
)

// M is a convenience type for passing named arguments. Any map type with
// string keys can be used with NewArguments.
//
//	args := sqlbind.NewMapArguments(registry, nil, sqlbind.M{"id": 10})
//	b, err := args.Find("id")
type M map[string]any

// NamedArgumentFinder returns the Binding for a named statement parameter.
type NamedArgumentFinder interface {
	// Find returns the Binding for name. An error wrapping ErrMissingName
	// is returned if the finder holds no value for name.
	Find(name string) (Binding, error)
}

// MapArguments finds named arguments in a map. Map entries carry no
// declared type so every value is resolved against Any.
type MapArguments struct {
	registry *Registry
	sc       *StatementContext
	args     map[string]any
}

var _ NamedArgumentFinder = (*MapArguments)(nil)

// NewMapArguments returns a finder over args that resolves values with
// registry. A nil registry resolves with the built-in types only.
func NewMapArguments(registry *Registry, sc *StatementContext, args map[string]any) *MapArguments {
	if registry == nil {
		registry = NewRegistry()
	}
	return &MapArguments{registry: registry, sc: sc, args: args}
}

// Find implements NamedArgumentFinder. A name present with a nil value
// binds NULL.
func (m *MapArguments) Find(name string) (Binding, error) {
	value, ok := m.args[name]
	if !ok {
		return nil, missingNameError(name)
	}
	return m.registry.Resolve(Any, value, m.sc)
}

// StructArguments finds named arguments in the fields of a struct tagged
// with `db:"name"`. Each value is resolved against the declared type of its
// field. Zero values of fields tagged with the omitempty option bind NULL.
type StructArguments struct {
	registry *Registry
	sc       *StatementContext
	value    reflect.Value
	info     *typeinfo.StructInfo
}

var _ NamedArgumentFinder = (*StructArguments)(nil)

// NewStructArguments returns a finder over the tagged fields of arg, which
// must be a struct or a pointer to one. A nil registry resolves with the
// built-in types only.
func NewStructArguments(registry *Registry, sc *StatementContext, arg any) (*StructArguments, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	v, err := typeinfo.ValidateArgument(arg)
	if err != nil {
		return nil, err
	}
	info, err := typeinfo.GetStructInfo(v.Type())
	if err != nil {
		return nil, err
	}
	return &StructArguments{registry: registry, sc: sc, value: v, info: info}, nil
}

// Find implements NamedArgumentFinder.
func (s *StructArguments) Find(name string) (Binding, error) {
	f, ok := s.info.Lookup(name)
	if !ok {
		return nil, missingNameError(name)
	}
	fv := s.value.Field(f.Index)
	var value any
	if !f.OmitEmpty || !fv.IsZero() {
		value = fv.Interface()
	}
	return s.registry.Resolve(f.Type, value, s.sc)
}

// Names returns the names of the tagged fields in sorted order.
func (s *StructArguments) Names() []string {
	names := make([]string, len(s.info.Tags))
	copy(names, s.info.Tags)
	return names
}

// NewArguments returns a finder over arg. Structs, and pointers to them,
// are read with StructArguments. Maps with string keys are read with
// MapArguments.
func NewArguments(registry *Registry, sc *StatementContext, arg any) (NamedArgumentFinder, error) {
	if m, ok := arg.(map[string]any); ok && m != nil {
		return NewMapArguments(registry, sc, m), nil
	}
	if m, ok := arg.(M); ok && m != nil {
		return NewMapArguments(registry, sc, m), nil
	}
	v, err := typeinfo.ValidateArgument(arg)
	if err != nil {
		return nil, err
	}
	if v.Kind() == reflect.Map {
		entries, err := typeinfo.MapEntries(v)
		if err != nil {
			return nil, err
		}
		return NewMapArguments(registry, sc, entries), nil
	}
	return NewStructArguments(registry, sc, arg)
}
