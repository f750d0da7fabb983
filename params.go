// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"

	"github.com/shopspring/decimal"
)

// Params is a Target that records bound values as database/sql query
// arguments. Values are stored at their 1-based position.
type Params struct {
	values []any
}

var _ Target = (*Params)(nil)

// Values returns the recorded arguments in position order. Positions that
// were never set hold nil.
func (p *Params) Values() []any {
	return p.values
}

func (p *Params) set(position int, v any) error {
	if position < 1 {
		return fmt.Errorf("invalid parameter position %d", position)
	}
	for len(p.values) < position {
		p.values = append(p.values, nil)
	}
	p.values[position-1] = v
	return nil
}

func (p *Params) SetNull(position int, _ SQLType) error   { return p.set(position, nil) }
func (p *Params) SetString(position int, v string) error  { return p.set(position, v) }
func (p *Params) SetBool(position int, v bool) error      { return p.set(position, v) }
func (p *Params) SetByte(position int, v byte) error      { return p.set(position, v) }
func (p *Params) SetShort(position int, v int16) error    { return p.set(position, v) }
func (p *Params) SetInt(position int, v int32) error      { return p.set(position, v) }
func (p *Params) SetLong(position int, v int64) error     { return p.set(position, v) }
func (p *Params) SetFloat(position int, v float32) error  { return p.set(position, v) }
func (p *Params) SetDouble(position int, v float64) error { return p.set(position, v) }
func (p *Params) SetBytes(position int, v []byte) error   { return p.set(position, v) }
func (p *Params) SetDate(position int, v Date) error      { return p.set(position, v.Time) }
func (p *Params) SetTime(position int, v Time) error      { return p.set(position, v.Time) }
func (p *Params) SetObject(position int, v any) error     { return p.set(position, v) }
func (p *Params) SetURL(position int, v *url.URL) error   { return p.set(position, v.String()) }
func (p *Params) SetTimestamp(position int, v Timestamp) error {
	return p.set(position, v.Time)
}

// SetDecimal records the decimal in its exact string form.
func (p *Params) SetDecimal(position int, v decimal.Decimal) error {
	return p.set(position, v.String())
}

// SetBlob records the content of the blob as a byte slice.
func (p *Params) SetBlob(position int, v Blob) error {
	r, err := v.BinaryStream()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return p.set(position, b)
}

// SetClob records the content of the clob as a string.
func (p *Params) SetClob(position int, v Clob) error {
	r, err := v.CharacterStream()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return p.set(position, string(b))
}

// Args applies each binding at consecutive positions starting from 1 and
// returns the resulting query arguments.
func Args(sc *StatementContext, bindings ...Binding) ([]any, error) {
	var p Params
	for i, b := range bindings {
		if err := b.Apply(i+1, &p, sc); err != nil {
			return nil, fmt.Errorf("cannot apply argument %d: %w", i+1, err)
		}
	}
	// Keep the length equal to the number of bindings even if the last ones
	// were never set by a custom Binding.
	for len(p.values) < len(bindings) {
		p.values = append(p.values, nil)
	}
	return p.values, nil
}

// NamedArgs finds each name with f and returns the values as sql.NamedArg
// query arguments.
func NamedArgs(f NamedArgumentFinder, sc *StatementContext, names ...string) ([]any, error) {
	args := make([]any, 0, len(names))
	for _, name := range names {
		b, err := f.Find(name)
		if err != nil {
			return nil, err
		}
		var p Params
		if err := b.Apply(1, &p, sc); err != nil {
			return nil, fmt.Errorf("cannot apply argument %q: %w", name, err)
		}
		var v any
		if len(p.values) > 0 {
			v = p.values[0]
		}
		args = append(args, sql.Named(name, v))
	}
	return args, nil
}

// Execer is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Exec applies the bindings to the positional parameters of query and
// executes it.
func Exec(ctx context.Context, db Execer, query string, bindings ...Binding) (sql.Result, error) {
	args, err := Args(nil, bindings...)
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, query, args...)
}

// Query applies the bindings to the positional parameters of query and
// runs it.
func Query(ctx context.Context, db Querier, query string, bindings ...Binding) (*sql.Rows, error) {
	args, err := Args(nil, bindings...)
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}
