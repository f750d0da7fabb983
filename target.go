// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// Target is a prepared statement, or anything shaped like one, whose
// parameters are addressed by position. Applying a Binding calls exactly one
// Target method. Positions are 1-based by convention, matching the
// placeholders of the statement.
type Target interface {
	// SetNull binds NULL of the given SQL type.
	SetNull(position int, t SQLType) error
	SetString(position int, v string) error
	SetBool(position int, v bool) error
	SetByte(position int, v byte) error
	SetShort(position int, v int16) error
	SetInt(position int, v int32) error
	SetLong(position int, v int64) error
	SetFloat(position int, v float32) error
	SetDouble(position int, v float64) error
	SetDecimal(position int, v decimal.Decimal) error
	SetBytes(position int, v []byte) error
	SetDate(position int, v Date) error
	SetTime(position int, v Time) error
	SetTimestamp(position int, v Timestamp) error
	SetBlob(position int, v Blob) error
	SetClob(position int, v Clob) error
	SetURL(position int, v *url.URL) error
	// SetObject binds a value of a type the target is expected to know
	// how to handle itself.
	SetObject(position int, v any) error
}

// StatementContext carries the attributes of the statement being executed.
// It is passed unchanged through every Accepts, Build and Apply call; the
// registry never inspects it. A nil *StatementContext has no attributes.
type StatementContext struct {
	attributes map[string]any
}

// NewStatementContext returns a StatementContext holding a copy of
// attributes.
func NewStatementContext(attributes map[string]any) *StatementContext {
	attrs := make(map[string]any, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	return &StatementContext{attributes: attrs}
}

// Attribute returns the named attribute, or nil if it is not set.
func (sc *StatementContext) Attribute(name string) any {
	if sc == nil {
		return nil
	}
	return sc.attributes[name]
}
