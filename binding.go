// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Binding is a resolved value ready to be applied to one statement
// parameter. Bindings are immutable and may be applied more than once.
type Binding interface {
	// Apply binds the value at position on the target. Errors returned by
	// the target are returned unchanged.
	Apply(position int, t Target, sc *StatementContext) error
}

// BuiltinBinding is the Binding produced by the built-in type table.
type BuiltinBinding struct {
	// value is the normalised value for kind, or nil for NULL.
	value any
	// sqlType is used to bind NULL.
	sqlType SQLType
	kind    Kind
	// array affects only String.
	array bool
}

var _ Binding = (*BuiltinBinding)(nil)

func newBuiltinBinding(kind Kind, sqlType SQLType, array bool, value any) *BuiltinBinding {
	return &BuiltinBinding{value: value, sqlType: sqlType, kind: kind, array: array}
}

// Kind returns the kind of Target setter the binding calls.
func (b *BuiltinBinding) Kind() Kind {
	return b.kind
}

// SQLType returns the SQL type used when the value is NULL.
func (b *BuiltinBinding) SQLType() SQLType {
	return b.sqlType
}

// Value returns the bound value, or nil for NULL.
func (b *BuiltinBinding) Value() any {
	return b.value
}

// IsNull reports whether the binding binds NULL.
func (b *BuiltinBinding) IsNull() bool {
	return b.value == nil
}

// Apply implements Binding.
func (b *BuiltinBinding) Apply(position int, t Target, _ *StatementContext) error {
	if b.value == nil {
		return t.SetNull(position, b.sqlType)
	}
	switch b.kind {
	case KindString:
		return t.SetString(position, b.value.(string))
	case KindBool:
		return t.SetBool(position, b.value.(bool))
	case KindByte:
		return t.SetByte(position, b.value.(byte))
	case KindShort:
		return t.SetShort(position, b.value.(int16))
	case KindInt:
		return t.SetInt(position, b.value.(int32))
	case KindLong:
		return t.SetLong(position, b.value.(int64))
	case KindFloat:
		return t.SetFloat(position, b.value.(float32))
	case KindDouble:
		return t.SetDouble(position, b.value.(float64))
	case KindDecimal:
		return t.SetDecimal(position, b.value.(decimal.Decimal))
	case KindBytes:
		return t.SetBytes(position, b.value.([]byte))
	case KindDate:
		return t.SetDate(position, b.value.(Date))
	case KindTime:
		return t.SetTime(position, b.value.(Time))
	case KindTimestamp:
		return t.SetTimestamp(position, b.value.(Timestamp))
	case KindBlob:
		return t.SetBlob(position, b.value.(Blob))
	case KindClob:
		return t.SetClob(position, b.value.(Clob))
	case KindURL:
		return t.SetURL(position, b.value.(*url.URL))
	case KindObject:
		return t.SetObject(position, b.value)
	}
	return fmt.Errorf("internal error: unknown binding kind %s", b.kind)
}

// String returns the bound value in human readable form.
func (b *BuiltinBinding) String() string {
	if b.value == nil {
		return "NULL"
	}
	if b.array {
		if bs, ok := b.value.([]byte); ok {
			elems := make([]string, len(bs))
			for i, e := range bs {
				elems[i] = strconv.Itoa(int(e))
			}
			return "[" + strings.Join(elems, ", ") + "]"
		}
	}
	return fmt.Sprint(b.value)
}
