package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/brand"
	"github.com/yanizio/tenantgate/internal/database"
	"github.com/yanizio/tenantgate/internal/server"
	"github.com/yanizio/tenantgate/internal/web"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configPath, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, configPath string, migrate bool) error {
	a, err := bootstrap(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openDB(ctx); err != nil {
		return err
	}
	if migrate {
		if err := database.MigrateUp(ctx, a.db, a.cfg.Database.Driver); err != nil {
			return err
		}
	}
	if err := a.buildResolver(ctx); err != nil {
		return err
	}

	h := web.NewRouter(web.Deps{
		Resolver: a.resolver,
		Tenants:  a.store,
		DB:       a.db,
		Brand: brand.Defaults{
			Color:     a.cfg.Brand.DefaultColor,
			AdminName: a.cfg.Brand.AdminName,
		},
		ForceHTTPS: a.cfg.HTTP.ForceHTTPS,
		Logger:     zap.L(),
	})

	ln, err := net.Listen("tcp", a.cfg.HTTP.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.HTTP.ListenAddr, err)
	}
	srv := server.New(a.cfg.HTTP, h)
	if err := server.Run(ctx, srv, ln, a.cfg.HTTP.ShutdownTimeout); err != nil {
		return err
	}
	zap.S().Infow("tenantgate stopped")
	return nil
}
