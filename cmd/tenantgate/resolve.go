package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/yanizio/tenantgate/internal/tenant"
)

type resolveOutput struct {
	Host       string         `json:"host"`
	Normalized string         `json:"normalized,omitempty"`
	Resolution string         `json:"resolution"`
	Tenant     *tenant.Tenant `json:"tenant,omitempty"`
}

func newResolveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <host>",
		Short: "Print what a Host header resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.openDB(ctx); err != nil {
				return err
			}
			if err := a.buildResolver(ctx); err != nil {
				return err
			}

			res, err := a.resolver.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			out := resolveOutput{Host: args[0], Resolution: res.Kind().String()}
			if n, err := tenant.NormalizeHost(args[0]); err == nil {
				out.Normalized = n
			}
			if t, ok := res.Tenant(); ok {
				out.Tenant = &t
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
