// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/canonical/sqlbind"
	"github.com/canonical/sqlbind/internal/argfile"
	"github.com/canonical/sqlbind/internal/config"
	"github.com/canonical/sqlbind/resolvers"
)

// app holds the state shared by the subcommands once the configuration is
// loaded.
type app struct {
	cfgFile  string
	cfg      *config.Config
	logger   *slog.Logger
	registry *sqlbind.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "sqlbind",
		Short: "Bind named arguments to SQL statement parameters",
		Long: `sqlbind resolves named arguments to statement parameter bindings.

Arguments are read from a YAML file given with --args and from --arg flags of
the form name=value or name:type=value.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("driver", "", "database/sql driver name (default: "+config.DefaultDriver+")")
	rootCmd.PersistentFlags().String("dsn", "", "data source name (default: "+config.DefaultDSN+")")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log argument resolution")

	cobra.CheckErr(rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.AddCommand(newExplainCmd(a))
	rootCmd.AddCommand(newExecCmd(a))
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		a.logger.Debug("using config file", "path", cfg.File)
	}

	a.registry = sqlbind.NewRegistry(sqlbind.WithLogger(a.logger))
	a.registry.Register(resolvers.Valuer())
	a.registry.Register(resolvers.UUID())
	return nil
}

// addArgFlags adds the flags selecting statement arguments to cmd.
func addArgFlags(cmd *cobra.Command, file *string, flags *[]string) {
	cmd.Flags().StringVar(file, "args", "", "YAML argument file")
	cmd.Flags().StringArrayVar(flags, "arg", nil, "argument as name=value or name:type=value (repeatable)")
}

// arguments reads the argument file, if any, and applies the flags on top.
func (a *app) arguments(file string, flags []string) (*argfile.Set, error) {
	if file == "" {
		file = a.cfg.Args
	}
	set := argfile.NewSet()
	if file != "" {
		var err error
		if set, err = argfile.ReadFile(file); err != nil {
			return nil, err
		}
		a.logger.Debug("read argument file", "path", file, "count", set.Len())
	}
	if err := set.AddFlags(flags); err != nil {
		return nil, err
	}
	return set, nil
}
