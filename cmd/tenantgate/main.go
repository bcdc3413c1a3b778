// cmd/tenantgate/main.go
//
// tenantgate – host-based tenant resolution service.
//
// Commands
// --------
//
//	serve               run the HTTP service
//	migrate up|down|status
//	resolve <host>      print what a host resolves to, through the cache
//	tenants list        list active tenants
//	tenants invalidate <domain>
//
// Every command loads the same configuration (conf/tenantgate.yaml plus
// TENANTGATE_* overrides).  A bootstrap console logger is active until the
// file logger takes over, so config errors are visible.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yanizio/tenantgate/internal/logger"
)

// serverEnvPath is the jail-wide env file read before the local .env.
const serverEnvPath = "/usr/local/etc/tenantgate/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	loadEnv()
	logger.Bootstrap()

	var configPath string

	root := &cobra.Command{
		Use:           "tenantgate",
		Short:         "Resolve tenants from request hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("TENANTGATE_CONFIG"),
		"path to tenantgate.yaml (env TENANTGATE_CONFIG)")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newResolveCmd(&configPath),
		newTenantsCmd(&configPath),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tenantgate:", err)
		os.Exit(1)
	}
}
