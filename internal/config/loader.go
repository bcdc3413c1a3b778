// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Defaults() compiled into the binary.
  2. Optional `.env` file at `<root>/conf/.env`.
  3. `conf/tenantgate.yaml`, or the explicit path passed by --config.
  4. Environment variables prefixed `TENANTGATE_`, where `__` maps to “.”
     (e.g., `TENANTGATE_TENANT__ADMIN_DOMAIN → tenant.admin_domain`).

After merging, the tree is unmarshalled into typed structs.  Secret fields
holding `vault:` references are resolved, host names are normalized, the
result is validated, and finally cached in an `atomic.Pointer` for
lock-free reads.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read, env overlay.
  • ERROR spans – YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/tenant"
	"github.com/yanizio/tenantgate/internal/vault"
)

const (
	envPrefix   = "TENANTGATE_"
	defaultFile = "tenantgate.yaml"
)

var current atomic.Pointer[Config]

// SecretResolver turns a `vault:` reference into its value.
// *vault.Client satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Options controls one Load call.
type Options struct {
	// Path is an explicit YAML file.  When empty the loader looks for
	// conf/tenantgate.yaml under the discovered root and tolerates its
	// absence.
	Path string

	// Secrets resolves vault: references.  When nil and a reference is
	// present, a Vault client is built from VAULT_ADDR / VAULT_TOKEN.
	Secrets SecretResolver
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves TENANTGATE_ROOT or climbs directories until
// conf/tenantgate.yaml is found.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", defaultFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load merges all layers, validates, and caches the Config.
func Load(ctx context.Context, opts Options) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath, explicit := opts.Path, opts.Path != ""
	if !explicit {
		yamlPath = filepath.Join(root, "conf", defaultFile)
	}
	if _, err := os.Stat(yamlPath); err == nil || explicit {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: TENANTGATE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Paths.Root = root

	if err := resolveSecrets(ctx, &cfg, opts.Secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}
	if err := normalizeHosts(&cfg); err != nil {
		zap.S().Errorw("config host normalization failed", "err", err)
		return nil, err
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"admin_domain", cfg.Tenant.AdminDomain,
		"cache", cfg.Tenant.Cache.Driver,
		"db_driver", cfg.Database.Driver,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces vault: references in secret fields.
func resolveSecrets(ctx context.Context, cfg *Config, secrets SecretResolver) error {
	fields := []*string{&cfg.Database.Password, &cfg.Redis.Password}

	for _, f := range fields {
		if !vault.IsRef(*f) {
			continue
		}
		if secrets == nil {
			cli, err := vault.New(ctx)
			if err != nil {
				return fmt.Errorf("config: vault client: %w", err)
			}
			secrets = cli
		}
		val, err := secrets.Resolve(ctx, *f)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", *f, err)
		}
		*f = val
	}
	return nil
}

// normalizeHosts puts configured host names in the form the resolver
// compares against.
func normalizeHosts(cfg *Config) error {
	for name, f := range map[string]*string{
		"tenant.admin_domain":    &cfg.Tenant.AdminDomain,
		"tenant.localhost_alias": &cfg.Tenant.LocalhostAlias,
	} {
		if *f == "" {
			continue
		}
		h, err := tenant.NormalizeHost(*f)
		if err != nil {
			return fmt.Errorf("config: %s %q: %w", name, *f, err)
		}
		*f = h
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Config, or nil.
func Get() *Config { return current.Load() }

// Reload calls Load again with opts and swaps the cached pointer.
func Reload(ctx context.Context, opts Options) error {
	_, err := Load(ctx, opts)
	return err
}
