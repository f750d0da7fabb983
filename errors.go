// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMissingName is returned by named argument sources asked for a name
	// they do not hold.
	ErrMissingName = errors.New("missing named parameter")

	// ErrIncompatibleValue is returned when a value cannot be bound as the
	// expected type.
	ErrIncompatibleValue = errors.New("incompatible value")
)

// BuildError is returned when a resolver accepted a value but could not
// build a binding for it.
type BuildError struct {
	Expected reflect.Type
	Value    any
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot bind %T as %s: %s", e.Value, e.Expected, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func missingNameError(name string) error {
	return fmt.Errorf("%w %q", ErrMissingName, name)
}
