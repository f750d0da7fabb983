// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package resolvers

import (
	"database/sql/driver"
	"reflect"

	"github.com/canonical/sqlbind"
)

type valuerResolver struct{}

// Valuer returns a resolver for values implementing driver.Valuer, such as
// sql.NullString. The driver value returned by Value is bound with the
// built-in table. Values of types the built-in table binds directly, such
// as decimal.Decimal, are not accepted.
func Valuer() sqlbind.Resolver {
	return valuerResolver{}
}

func (valuerResolver) Accepts(_ reflect.Type, value any, _ *sqlbind.StatementContext) bool {
	v, ok := value.(driver.Valuer)
	if !ok || sqlbind.IsBuiltin(reflect.TypeOf(value)) {
		return false
	}
	// Calling Value on a nil pointer may panic.
	rv := reflect.ValueOf(v)
	return rv.Kind() != reflect.Pointer || !rv.IsNil()
}

func (valuerResolver) Build(expected reflect.Type, value any, _ *sqlbind.StatementContext) (sqlbind.Binding, error) {
	v, ok := value.(driver.Valuer)
	if !ok {
		return nil, &sqlbind.BuildError{Expected: expected, Value: value, Err: sqlbind.ErrIncompatibleValue}
	}
	dv, err := v.Value()
	if err != nil {
		return nil, &sqlbind.BuildError{Expected: expected, Value: value, Err: err}
	}
	return sqlbind.Build(dv)
}
