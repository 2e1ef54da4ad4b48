// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"fmt"

	"github.com/mdhender/sqliteschema"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var create, verbose bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the database with the schema",
		Long: `Reconcile every declared table in one transaction.

The database must exist unless --create is given, in which case a missing
file is created first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, rootOpts, create, verbose)
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "create the database file if it does not exist")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every statement issued")

	return cmd
}

func runApply(cmd *cobra.Command, opts *RootOptions, create, verbose bool) error {
	cfg, err := opts.config(true)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if create && cfg.Path != ":memory:" && !fileExists(cfg.Path) {
		if err := sqliteschema.Create(ctx, cfg); err != nil {
			return commandError("create", err)
		}
		fmt.Fprintf(out, "created %s with %d table(s)\n", cfg.Path, len(cfg.Schema))
		return nil
	}

	open := cfg
	open.SkipReconcile = true
	db, err := sqliteschema.Open(ctx, open)
	if err != nil {
		return commandError("open", err)
	}
	defer db.Close()

	results, err := sqliteschema.Apply(ctx, db, cfg)
	if err != nil {
		return commandError("apply", err)
	}
	writeResults(out, results, verbose)
	return nil
}
