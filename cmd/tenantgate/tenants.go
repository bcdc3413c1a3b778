package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTenantsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Inspect tenants and the resolution cache",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List active tenants",
		Args:  cobra.NoArgs,
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
			ts, err := a.store.Active(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDOMAIN\tNAME\tLOCALE")
			for _, t := range ts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Domain, t.Name, t.Locale)
			}
			return tw.Flush()
		},
	}

	// Only useful with the redis cache; the memory cache lives in the
	// server process.
	invalidate := &cobra.Command{
		Use:   "invalidate <domain>",
		Short: "Drop a domain from the shared resolution cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if a.cfg.Tenant.Cache.Driver != "redis" {
				return fmt.Errorf("tenants invalidate needs tenant.cache.driver=redis (have %q)", a.cfg.Tenant.Cache.Driver)
			}
			if err := a.openDB(ctx); err != nil {
				return err
			}
			if err := a.buildResolver(ctx); err != nil {
				return err
			}
			if err := a.cached.Invalidate(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, invalidate)
	return cmd
}
