// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/canonical/sqlbind"
	"github.com/canonical/sqlbind/internal/config"
)

func newExplainCmd(a *app) *cobra.Command {
	var file string
	var flags []string
	cmd := &cobra.Command{
		Use:   "explain [name...]",
		Short: "Show how each argument is bound",
		Long: `Resolve each argument and show the statement setter it uses, the SQL
type bound for NULL values and the bound value.

Without names every argument is shown in the order it was given.`,
		RunE: func(cmd *cobra.Command, names []string) error {
			set, err := a.arguments(file, flags)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				names = set.Names()
			}
			finder := sqlbind.NewMapArguments(a.registry, nil, set.Map())
			rows := make([]explanation, 0, len(names))
			for _, name := range names {
				row, err := explain(finder, name)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			return renderExplanations(cmd.OutOrStdout(), a.cfg.Output, rows)
		},
	}
	addArgFlags(cmd, &file, &flags)
	return cmd
}

// explanation describes the binding of one argument.
type explanation struct {
	Name    string `json:"name"`
	Setter  string `json:"setter"`
	SQLType string `json:"sql_type,omitempty"`
	Value   string `json:"value"`
}

func explain(f sqlbind.NamedArgumentFinder, name string) (explanation, error) {
	b, err := f.Find(name)
	if err != nil {
		return explanation{}, err
	}
	var p probe
	if err := b.Apply(1, &p, nil); err != nil {
		return explanation{}, fmt.Errorf("cannot apply argument %q: %w", name, err)
	}
	e := explanation{Name: name, Setter: p.setter, Value: p.value}
	if bb, ok := b.(*sqlbind.BuiltinBinding); ok {
		e.SQLType = bb.SQLType().String()
	} else if p.null {
		e.SQLType = p.sqlType.String()
	}
	return e, nil
}

func renderExplanations(w io.Writer, format string, rows []explanation) error {
	if format == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Setter", "SQL Type", "Value"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Name, r.Setter, r.SQLType, r.Value})
	}
	t.Render()
	return nil
}

// probe is a Target that describes the single call made on it.
type probe struct {
	setter  string
	value   string
	null    bool
	sqlType sqlbind.SQLType
}

func (p *probe) set(setter string, v any) error {
	p.setter = setter
	p.value = fmt.Sprint(v)
	return nil
}

func (p *probe) SetNull(_ int, t sqlbind.SQLType) error {
	p.setter, p.value, p.null, p.sqlType = "SetNull", "NULL", true, t
	return nil
}

func (p *probe) SetString(_ int, v string) error           { return p.set("SetString", v) }
func (p *probe) SetBool(_ int, v bool) error               { return p.set("SetBool", v) }
func (p *probe) SetByte(_ int, v byte) error               { return p.set("SetByte", v) }
func (p *probe) SetShort(_ int, v int16) error             { return p.set("SetShort", v) }
func (p *probe) SetInt(_ int, v int32) error               { return p.set("SetInt", v) }
func (p *probe) SetLong(_ int, v int64) error              { return p.set("SetLong", v) }
func (p *probe) SetFloat(_ int, v float32) error           { return p.set("SetFloat", v) }
func (p *probe) SetDouble(_ int, v float64) error          { return p.set("SetDouble", v) }
func (p *probe) SetDecimal(_ int, v decimal.Decimal) error { return p.set("SetDecimal", v) }
func (p *probe) SetURL(_ int, v *url.URL) error            { return p.set("SetURL", v) }
func (p *probe) SetObject(_ int, v any) error              { return p.set("SetObject", v) }
func (p *probe) SetBlob(_ int, v sqlbind.Blob) error       { return p.set("SetBlob", lobLength(v.Length)) }
func (p *probe) SetClob(_ int, v sqlbind.Clob) error       { return p.set("SetClob", lobLength(v.Length)) }

func (p *probe) SetBytes(_ int, v []byte) error {
	elems := make([]string, len(v))
	for i, b := range v {
		elems[i] = fmt.Sprint(b)
	}
	return p.set("SetBytes", "["+strings.Join(elems, ", ")+"]")
}

func (p *probe) SetDate(_ int, v sqlbind.Date) error {
	return p.set("SetDate", v.Format("2006-01-02"))
}

func (p *probe) SetTime(_ int, v sqlbind.Time) error {
	return p.set("SetTime", v.Format("15:04:05.999999999"))
}

func (p *probe) SetTimestamp(_ int, v sqlbind.Timestamp) error {
	return p.set("SetTimestamp", v.Format("2006-01-02T15:04:05.999999999Z07:00"))
}

func lobLength(length func() (int64, error)) string {
	n, err := length()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return fmt.Sprintf("<%d>", n)
}
