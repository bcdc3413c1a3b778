// internal/config/model.go
//
// Typed configuration model for tenantgate.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from its overlay layers:
//
//   - Defaults()                                 – compiled-in values,
//   - optional `.env`                            – dotenv values,
//   - `conf/tenantgate.yaml`                     – primary static file,
//   - `TENANTGATE_`-prefixed environment values  – highest precedence.
//
// Any secret field whose value begins with `vault:` is resolved through
// internal/vault after unmarshalling, so the model never hands Vault URIs
// to the rest of the program.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   - Durations accept Go syntax ("250ms", "5m").
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
package config

import (
	"fmt"
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

//
// Tenant section
//

// Cache selects and tunes the resolution cache.
type Cache struct {
	Driver      string        `koanf:"driver"       validate:"oneof=memory redis none"`
	TTL         time.Duration `koanf:"ttl"          validate:"gte=0"`
	NegativeTTL time.Duration `koanf:"negative_ttl" validate:"gte=0"`
	MaxEntries  int           `koanf:"max_entries"  validate:"gte=0"`
	RedisPrefix string        `koanf:"redis_prefix"`
}

// Tenant holds resolution settings.
//
// AdminDomain is optional.  When empty no host resolves to Admin.
// LocalhostAlias lets a dev instance answer "localhost" as a real tenant.
type Tenant struct {
	AdminDomain    string        `koanf:"admin_domain"    validate:"omitempty,fqdn|hostname"`
	LocalhostAlias string        `koanf:"localhost_alias" validate:"omitempty,fqdn|hostname"`
	LookupTimeout  time.Duration `koanf:"lookup_timeout"  validate:"gte=0"`
	Cache          Cache         `koanf:"cache"`
}

//
// Database section
//

// Database holds the control-plane DSN and secret.
//
// The DSN template is kept in YAML so operators can tweak host, port, or
// flags without touching Vault.  When it contains one `%s` verb the
// Password (usually a vault: reference) is substituted there.
type Database struct {
	Driver       string `koanf:"driver"         validate:"oneof=mysql pgx"`
	DSN          string `koanf:"dsn"            validate:"required"`
	Password     string `koanf:"password"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
	PingRetries  int    `koanf:"ping_retries"   validate:"gte=0"`
}

// ResolvedDSN returns the DSN with the password filled in.
func (d Database) ResolvedDSN() string {
	if strings.Count(d.DSN, "%s") == 1 {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Redis section (only read when tenant.cache.driver = redis)
//

type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
}

//
// Brand section
//

// Brand holds presentation defaults for hosts without their own colors.
type Brand struct {
	DefaultColor string `koanf:"default_color" validate:"required"`
	AdminName    string `koanf:"admin_name"    validate:"required"`
}

//
// Log section
//

type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir   string `koanf:"dir"` // relative paths resolve against Paths.Root
	Tee   bool   `koanf:"tee"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime and never set in YAML or env.
type Paths struct {
	Root string // TENANTGATE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Tenant   Tenant   `koanf:"tenant"`
	Database Database `koanf:"database"`
	Redis    Redis    `koanf:"redis"`
	Brand    Brand    `koanf:"brand"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// Defaults returns the baseline configuration every layer overrides.
func Defaults() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Tenant: Tenant{
			LookupTimeout: 2 * time.Second,
			Cache: Cache{
				Driver:      "memory",
				TTL:         5 * time.Minute,
				NegativeTTL: 30 * time.Second,
				MaxEntries:  10000,
			},
		},
		Database: Database{
			Driver:      "mysql",
			PingRetries: 2,
		},
		Redis: Redis{Addr: "127.0.0.1:6379"},
		Brand: Brand{DefaultColor: "blue", AdminName: "Administration"},
		Log:   Log{Level: "info", Dir: "logs"},
	}
}
