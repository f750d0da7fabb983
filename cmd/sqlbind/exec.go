// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package main

import (
	"database/sql"
	"fmt"
	"io"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/canonical/sqlbind"
	"github.com/canonical/sqlbind/internal/config"
)

func newExecCmd(a *app) *cobra.Command {
	var file string
	var flags []string
	cmd := &cobra.Command{
		Use:   "exec QUERY",
		Short: "Execute a statement with named arguments",
		Long: `Execute QUERY on the configured database. Arguments referenced in the
query as :name, @name or $name are passed as named arguments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			set, err := a.arguments(file, flags)
			if err != nil {
				return err
			}
			params := parameterNames(query)
			var names []string
			for _, name := range set.Names() {
				if params[name] {
					names = append(names, name)
				}
			}
			finder := sqlbind.NewMapArguments(a.registry, nil, set.Map())
			named, err := sqlbind.NamedArgs(finder, nil, names...)
			if err != nil {
				return err
			}

			db, err := sql.Open(a.cfg.Driver, a.cfg.DSN)
			if err != nil {
				return fmt.Errorf("cannot open database: %w", err)
			}
			defer db.Close()

			a.logger.Debug("executing statement", "driver", a.cfg.Driver, "args", len(named))
			res, err := db.ExecContext(cmd.Context(), query, named...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			return renderRowsAffected(cmd.OutOrStdout(), a.cfg.Output, n)
		},
	}
	addArgFlags(cmd, &file, &flags)
	return cmd
}

var parameterRx = regexp.MustCompile(`[:@$]([\pL_][\pL\pN_]*)`)

// parameterNames returns the names of the named parameters in query.
func parameterNames(query string) map[string]bool {
	names := make(map[string]bool)
	for _, m := range parameterRx.FindAllStringSubmatch(query, -1) {
		names[m[1]] = true
	}
	return names
}

func renderRowsAffected(w io.Writer, format string, n int64) error {
	if format == config.OutputJSON {
		return json.NewEncoder(w).Encode(map[string]int64{"rows_affected": n})
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rows Affected"})
	t.AppendRow(table.Row{n})
	t.Render()
	return nil
}
