// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package resolvers provides sqlbind resolvers for types outside the
// built-in table.
package resolvers

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/canonical/sqlbind"
)

var (
	uuidType    = reflect.TypeFor[uuid.UUID]()
	uuidPtrType = reflect.TypeFor[*uuid.UUID]()
)

// UUIDBinding binds a UUID as its canonical string form. The zero
// UUIDBinding binds NULL as CHAR.
type UUIDBinding struct {
	id    uuid.UUID
	valid bool
}

// Apply implements sqlbind.Binding.
func (b UUIDBinding) Apply(position int, t sqlbind.Target, _ *sqlbind.StatementContext) error {
	if !b.valid {
		return t.SetNull(position, sqlbind.TypeChar)
	}
	return t.SetString(position, b.id.String())
}

func (b UUIDBinding) String() string {
	if !b.valid {
		return "NULL"
	}
	return b.id.String()
}

type uuidResolver struct{}

// UUID returns a resolver for github.com/google/uuid values. It accepts
// parameters declared as uuid.UUID or *uuid.UUID, and values of either type
// declared as anything. Strings declared as a UUID are parsed.
func UUID() sqlbind.Resolver {
	return uuidResolver{}
}

func (uuidResolver) Accepts(expected reflect.Type, value any, _ *sqlbind.StatementContext) bool {
	if expected == uuidType || expected == uuidPtrType {
		return true
	}
	switch v := value.(type) {
	case uuid.UUID:
		return true
	case *uuid.UUID:
		return v != nil
	}
	return false
}

func (uuidResolver) Build(expected reflect.Type, value any, _ *sqlbind.StatementContext) (sqlbind.Binding, error) {
	switch v := value.(type) {
	case nil:
		return UUIDBinding{}, nil
	case uuid.UUID:
		return UUIDBinding{id: v, valid: true}, nil
	case *uuid.UUID:
		if v == nil {
			return UUIDBinding{}, nil
		}
		return UUIDBinding{id: *v, valid: true}, nil
	case uuid.NullUUID:
		return UUIDBinding{id: v.UUID, valid: v.Valid}, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, &sqlbind.BuildError{Expected: expected, Value: value, Err: err}
		}
		return UUIDBinding{id: id, valid: true}, nil
	}
	return nil, &sqlbind.BuildError{Expected: expected, Value: value, Err: sqlbind.ErrIncompatibleValue}
}
