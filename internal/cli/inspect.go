// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/mdhender/sqliteschema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [table...]",
		Short: "Print live table definitions as a schema file",
		Long: `Print the live definition of the named tables, or of every user table,
in the schema file format. The output can be used as a starting schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, rootOpts, args)
		},
	}

	return cmd
}

func runInspect(cmd *cobra.Command, opts *RootOptions, tables []string) error {
	cfg, err := opts.config(false)
	if err != nil {
		return err
	}
	cfg.SkipReconcile = true
	ctx := cmd.Context()

	db, err := sqliteschema.Open(ctx, cfg)
	if err != nil {
		return commandError("open", err)
	}
	defer db.Close()
	q := sqliteschema.NewDBQuerier(db)

	if len(tables) == 0 {
		if tables, err = sqliteschema.TableNames(ctx, q); err != nil {
			return commandError("list tables", err)
		}
	}

	defs := make([]sqliteschema.TableDefinition, 0, len(tables))
	for _, name := range tables {
		def, ok, err := sqliteschema.Inspect(ctx, q, name)
		if err != nil {
			return commandError("inspect "+name, err)
		}
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("table %q does not exist", name))
		}
		defs = append(defs, def)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(defs); err != nil {
		return WrapExitError(ExitCommandError, "encode", err)
	}
	return enc.Close()
}
