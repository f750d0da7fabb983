// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package pgxargs applies sqlbind bindings as arguments for
// github.com/jackc/pgx/v5 queries.
//
// Values are recorded as pgx native types so they are encoded with the
// PostgreSQL type they were bound as:
//
//	decimal.Decimal    pgtype.Numeric
//	sqlbind.Date       pgtype.Date
//	sqlbind.Time       pgtype.Time
//	sqlbind.Timestamp  pgtype.Timestamp
//	byte               int16
//	Blob               []byte
//	Clob, URL          string
//	NULL               nil
package pgxargs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/canonical/sqlbind"
)

// Target is a sqlbind.Target recording values at 1-based positions.
type Target struct {
	values []any
}

var _ sqlbind.Target = (*Target)(nil)

// Values returns the recorded arguments in position order.
func (t *Target) Values() []any {
	return t.values
}

func (t *Target) set(position int, v any) error {
	if position < 1 {
		return fmt.Errorf("invalid parameter position %d", position)
	}
	for len(t.values) < position {
		t.values = append(t.values, nil)
	}
	t.values[position-1] = v
	return nil
}

func (t *Target) SetNull(p int, _ sqlbind.SQLType) error { return t.set(p, nil) }
func (t *Target) SetString(p int, v string) error        { return t.set(p, v) }
func (t *Target) SetBool(p int, v bool) error            { return t.set(p, v) }
func (t *Target) SetByte(p int, v byte) error            { return t.set(p, int16(v)) }
func (t *Target) SetShort(p int, v int16) error          { return t.set(p, v) }
func (t *Target) SetInt(p int, v int32) error            { return t.set(p, v) }
func (t *Target) SetLong(p int, v int64) error           { return t.set(p, v) }
func (t *Target) SetFloat(p int, v float32) error        { return t.set(p, v) }
func (t *Target) SetDouble(p int, v float64) error       { return t.set(p, v) }
func (t *Target) SetBytes(p int, v []byte) error         { return t.set(p, v) }
func (t *Target) SetURL(p int, v *url.URL) error         { return t.set(p, v.String()) }
func (t *Target) SetObject(p int, v any) error           { return t.set(p, v) }

func (t *Target) SetDecimal(p int, v decimal.Decimal) error {
	return t.set(p, pgtype.Numeric{Int: v.Coefficient(), Exp: v.Exponent(), Valid: true})
}

func (t *Target) SetDate(p int, v sqlbind.Date) error {
	y, m, d := v.Date()
	return t.set(p, pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true})
}

// SetTime records the time of day with microsecond precision.
func (t *Target) SetTime(p int, v sqlbind.Time) error {
	h, m, s := v.Clock()
	usec := (int64(h)*3600+int64(m)*60+int64(s))*1e6 + int64(v.Nanosecond())/1e3
	return t.set(p, pgtype.Time{Microseconds: usec, Valid: true})
}

func (t *Target) SetTimestamp(p int, v sqlbind.Timestamp) error {
	return t.set(p, pgtype.Timestamp{Time: v.Time, Valid: true})
}

func (t *Target) SetBlob(p int, v sqlbind.Blob) error {
	r, err := v.BinaryStream()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return t.set(p, b)
}

func (t *Target) SetClob(p int, v sqlbind.Clob) error {
	r, err := v.CharacterStream()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return t.set(p, string(b))
}

// Args applies the bindings at positions 1 to n and returns the arguments
// for $1 to $n.
func Args(sc *sqlbind.StatementContext, bindings ...sqlbind.Binding) ([]any, error) {
	var t Target
	for i, b := range bindings {
		if err := b.Apply(i+1, &t, sc); err != nil {
			return nil, fmt.Errorf("cannot apply argument %d: %w", i+1, err)
		}
	}
	for len(t.values) < len(bindings) {
		t.values = append(t.values, nil)
	}
	return t.values, nil
}

// NamedArgs finds each name with f and returns them as pgx.NamedArgs for
// queries using @name placeholders.
func NamedArgs(f sqlbind.NamedArgumentFinder, sc *sqlbind.StatementContext, names ...string) (pgx.NamedArgs, error) {
	args := make(pgx.NamedArgs, len(names))
	for _, name := range names {
		b, err := f.Find(name)
		if err != nil {
			return nil, err
		}
		var t Target
		if err := b.Apply(1, &t, sc); err != nil {
			return nil, fmt.Errorf("cannot apply argument %q: %w", name, err)
		}
		var v any
		if len(t.values) > 0 {
			v = t.values[0]
		}
		args[name] = v
	}
	return args, nil
}

// Execer is implemented by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Exec applies the bindings to the positional parameters of query and
// executes it on conn.
func Exec(ctx context.Context, conn Execer, query string, bindings ...sqlbind.Binding) (pgconn.CommandTag, error) {
	args, err := Args(nil, bindings...)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, query, args...)
}
