// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package targettest provides a Target that records the calls made on it.
package targettest

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/canonical/sqlbind"
)

// Call is a single setter call on a Recorder.
type Call struct {
	Method   string
	Position int
	Value    any
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%d, %v)", c.Method, c.Position, c.Value)
}

// Recorder is a sqlbind.Target that records every call. If Err is set it is
// returned from every call after the call is recorded.
type Recorder struct {
	Calls []Call
	Err   error
}

var _ sqlbind.Target = (*Recorder)(nil)

func (r *Recorder) record(method string, position int, v any) error {
	r.Calls = append(r.Calls, Call{Method: method, Position: position, Value: v})
	return r.Err
}

func (r *Recorder) SetNull(p int, t sqlbind.SQLType) error { return r.record("SetNull", p, t) }
func (r *Recorder) SetString(p int, v string) error        { return r.record("SetString", p, v) }
func (r *Recorder) SetBool(p int, v bool) error            { return r.record("SetBool", p, v) }
func (r *Recorder) SetByte(p int, v byte) error            { return r.record("SetByte", p, v) }
func (r *Recorder) SetShort(p int, v int16) error          { return r.record("SetShort", p, v) }
func (r *Recorder) SetInt(p int, v int32) error            { return r.record("SetInt", p, v) }
func (r *Recorder) SetLong(p int, v int64) error           { return r.record("SetLong", p, v) }
func (r *Recorder) SetFloat(p int, v float32) error        { return r.record("SetFloat", p, v) }
func (r *Recorder) SetDouble(p int, v float64) error       { return r.record("SetDouble", p, v) }
func (r *Recorder) SetBytes(p int, v []byte) error         { return r.record("SetBytes", p, v) }
func (r *Recorder) SetDate(p int, v sqlbind.Date) error    { return r.record("SetDate", p, v) }
func (r *Recorder) SetTime(p int, v sqlbind.Time) error    { return r.record("SetTime", p, v) }
func (r *Recorder) SetBlob(p int, v sqlbind.Blob) error    { return r.record("SetBlob", p, v) }
func (r *Recorder) SetClob(p int, v sqlbind.Clob) error    { return r.record("SetClob", p, v) }
func (r *Recorder) SetURL(p int, v *url.URL) error         { return r.record("SetURL", p, v) }
func (r *Recorder) SetObject(p int, v any) error           { return r.record("SetObject", p, v) }

func (r *Recorder) SetDecimal(p int, v decimal.Decimal) error {
	return r.record("SetDecimal", p, v)
}

func (r *Recorder) SetTimestamp(p int, v sqlbind.Timestamp) error {
	return r.record("SetTimestamp", p, v)
}
