package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/tenantgate/internal/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the control-plane schema",
	}

	run := func(name string, fn func(cmd *cobra.Command, a *app) error) *cobra.Command {
		return &cobra.Command{
			Use:  name,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				a, err := bootstrap(ctx, *configPath, false)
				if err != nil {
					return err
				}
				defer a.close()
				if err := a.openDB(ctx); err != nil {
					return err
				}
				return fn(cmd, a)
			},
		}
	}

	up := run("up", func(cmd *cobra.Command, a *app) error {
		return database.MigrateUp(cmd.Context(), a.db, a.cfg.Database.Driver)
	})
	up.Short = "Apply all pending migrations"

	down := run("down", func(cmd *cobra.Command, a *app) error {
		return database.MigrateDown(cmd.Context(), a.db, a.cfg.Database.Driver)
	})
	down.Short = "Roll back the latest migration"

	status := run("status", func(cmd *cobra.Command, a *app) error {
		v, err := database.Version(cmd.Context(), a.db, a.cfg.Database.Driver)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
		return nil
	})
	status.Short = "Print the current schema version"

	cmd.AddCommand(up, down, status)
	return cmd
}
