// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"github.com/mdhender/sqliteschema"
	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the statements apply would issue",
		Long: `Compare the database with the schema and print, per table, the action
apply would take and the statements it would issue. The database is not
modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config(true)
			if err != nil {
				return err
			}
			results, err := sqliteschema.Plan(cmd.Context(), cfg)
			if err != nil {
				return commandError("plan", err)
			}
			writeResults(cmd.OutOrStdout(), results, true)
			return nil
		},
	}

	return cmd
}
