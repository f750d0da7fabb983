// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// builtin describes how values of a registered type are bound.
type builtin struct {
	kind    Kind
	sqlType SQLType
	array   bool
	// convert normalises a non-null value to the Go type expected by the
	// Target setter for kind.
	convert func(v any) (any, bool)
}

func (b *builtin) build(expected reflect.Type, value any) (Binding, error) {
	if isNull(value) {
		return newBuiltinBinding(b.kind, b.sqlType, b.array, nil), nil
	}
	v, ok := b.convert(value)
	if !ok {
		return nil, &BuildError{Expected: expected, Value: value, Err: ErrIncompatibleValue}
	}
	// A pointer to a nil URL, slice or large object is still null.
	if isNull(v) {
		v = nil
	}
	return newBuiltinBinding(b.kind, b.sqlType, b.array, v), nil
}

// as returns v as a T. Pointers to T are dereferenced and values whose
// underlying kind matches T are converted.
func as[T any](v any) (T, bool) {
	switch x := v.(type) {
	case T:
		return x, true
	case *T:
		if x != nil {
			return *x, true
		}
	}
	var zero T
	t := reflect.TypeFor[T]()
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != t.Kind() || !rv.Type().ConvertibleTo(t) {
		return zero, false
	}
	return rv.Convert(t).Interface().(T), true
}

func newBuiltin[T, S any](kind Kind, sqlType SQLType, f func(T) S) *builtin {
	return &builtin{
		kind:    kind,
		sqlType: sqlType,
		convert: func(v any) (any, bool) {
			x, ok := as[T](v)
			if !ok {
				return nil, false
			}
			return f(x), true
		},
	}
}

func same[T any](v T) T { return v }

var (
	stringBuiltin = newBuiltin(KindString, TypeVarchar, same[string])
	objectBuiltin = &builtin{
		kind:    KindObject,
		sqlType: TypeNull,
		convert: func(v any) (any, bool) { return v, true },
	}
)

// builtins maps each known type to its builtin. It is never modified after
// package initialisation.
var builtins = map[reflect.Type]*builtin{}

// register adds b for T, and for *T when boxed is set.
func register[T any](b *builtin, boxed bool) {
	builtins[reflect.TypeFor[T]()] = b
	if boxed {
		builtins[reflect.TypeFor[*T]()] = b
	}
}

func init() {
	register[decimal.Decimal](newBuiltin(KindDecimal, TypeNumeric, same[decimal.Decimal]), true)
	register[Blob](newBuiltin(KindBlob, TypeBlob, same[Blob]), false)
	register[bool](newBuiltin(KindBool, TypeBoolean, same[bool]), true)
	register[byte](newBuiltin(KindByte, TypeTinyInt, same[byte]), true)
	bytes := newBuiltin(KindBytes, TypeVarbinary, same[[]byte])
	bytes.array = true
	register[[]byte](bytes, false)
	register[Char](newBuiltin(KindString, TypeChar, func(c Char) string { return string(rune(c)) }), true)
	register[Clob](newBuiltin(KindClob, TypeClob, same[Clob]), false)
	register[float64](newBuiltin(KindDouble, TypeDouble, same[float64]), true)
	register[float32](newBuiltin(KindFloat, TypeFloat, same[float32]), true)
	register[int32](newBuiltin(KindInt, TypeInteger, same[int32]), true)
	register[time.Time](newBuiltin(KindTimestamp, TypeTimestamp, func(t time.Time) Timestamp { return Timestamp{t} }), true)
	register[int64](newBuiltin(KindLong, TypeInteger, same[int64]), true)
	register[int](newBuiltin(KindLong, TypeInteger, func(i int) int64 { return int64(i) }), true)
	register[any](objectBuiltin, false)
	register[int16](newBuiltin(KindShort, TypeSmallInt, same[int16]), true)
	register[Date](newBuiltin(KindDate, TypeDate, same[Date]), false)
	register[string](stringBuiltin, true)
	register[Time](newBuiltin(KindTime, TypeTime, same[Time]), false)
	register[Timestamp](newBuiltin(KindTimestamp, TypeTimestamp, same[Timestamp]), false)
	register[*url.URL](newBuiltin(KindURL, TypeDatalink, same[*url.URL]), false)
}

// lookupBuiltin returns the builtin for t. Types without an entry of their
// own that implement Blob, or failing that Clob, use the Blob or Clob
// entries.
func lookupBuiltin(t reflect.Type) (*builtin, bool) {
	if t == nil {
		return nil, false
	}
	if b, ok := builtins[t]; ok {
		return b, true
	}
	switch {
	case t.Implements(blobInterface):
		return builtins[blobInterface], true
	case t.Implements(clobInterface):
		return builtins[clobInterface], true
	}
	return nil, false
}

// IsBuiltin reports whether values of type t are bound by the built-in type
// table, either with an entry of their own or as a Blob or Clob.
func IsBuiltin(t reflect.Type) bool {
	_, ok := lookupBuiltin(t)
	return ok
}

// builtinResolver resolves bindings from the built-in type table. It accepts
// every null value and every enumeration, so it is always the last resolver
// consulted by a Registry.
type builtinResolver struct{}

// Builtins returns the resolver for the built-in type table.
func Builtins() Resolver {
	return builtinResolver{}
}

// Accepts implements Resolver.
func (builtinResolver) Accepts(expected reflect.Type, value any, _ *StatementContext) bool {
	if _, ok := lookupBuiltin(expected); ok {
		return true
	}
	if isNull(value) {
		return true
	}
	_, ok := value.(Enum)
	return ok
}

// Build implements Resolver.
func (builtinResolver) Build(expected reflect.Type, value any, _ *StatementContext) (Binding, error) {
	if expected == nil {
		expected = Any
	}
	null := isNull(value)

	// Without a declared type, bind using the value's own type.
	if !null && expected == Any {
		if b, ok := lookupBuiltin(reflect.TypeOf(value)); ok {
			return b.build(expected, value)
		}
		if e, ok := value.(Enum); ok {
			return stringBuiltin.build(expected, e.EnumName())
		}
	}

	if b, ok := lookupBuiltin(expected); ok {
		return b.build(expected, value)
	}

	// Enumerations are bound as VARCHAR.
	if isEnumType(expected) {
		if null {
			return stringBuiltin.build(expected, nil)
		}
		return stringBuiltin.build(expected, fmt.Sprint(enumValue(value)))
	}

	return objectBuiltin.build(expected, value)
}

// enumValue dereferences pointers to enumeration values that have no String
// method.
func enumValue(v any) any {
	if _, ok := v.(fmt.Stringer); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Interface()
}
