// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"reflect"

	"github.com/pkg/errors"
)

// ValidateArgument checks that arg can hold named arguments and returns its
// reflect.Value with pointers removed. Valid arguments are structs, maps
// with string keys, and non-nil pointers to either.
func ValidateArgument(arg any) (reflect.Value, error) {
	v := reflect.ValueOf(arg)
	if isInvalidNil(v) {
		return reflect.Value{}, errors.New("need struct or map, got nil")
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
		if k := v.Kind(); k != reflect.Struct && k != reflect.Map {
			return reflect.Value{}, errors.Errorf("need struct or map, got pointer to %s", k)
		}
		if isInvalidNil(v) {
			return reflect.Value{}, errors.New("need struct or map, got pointer to nil map")
		}
	}
	switch v.Kind() {
	case reflect.Struct:
		return v, nil
	case reflect.Map:
		if k := v.Type().Key().Kind(); k != reflect.String {
			return reflect.Value{}, errors.Errorf("map type %s must have key type string, found type %s", v.Type(), k)
		}
		return v, nil
	}
	return reflect.Value{}, errors.Errorf("need struct or map, got %s", v.Kind())
}

// MapEntries copies the entries of a map with string keys into a
// map[string]any.
func MapEntries(v reflect.Value) (map[string]any, error) {
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, errors.Errorf("need map with string keys, got %s", v.Type())
	}
	entries := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries[iter.Key().String()] = iter.Value().Interface()
	}
	return entries, nil
}

func isInvalidNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Map:
		return v.IsNil()
	}
	return false
}
