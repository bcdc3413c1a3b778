// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// `Load` calls `validateStruct` once the merged tree is unmarshalled and
// secrets are resolved.  Any failure aborts startup, so the binary never
// runs with partial or malformed configuration.
//
// Besides the struct tags, one cross-field rule lives here: the redis
// cache driver needs a redis address.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Tenant.Cache.Driver == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when tenant.cache.driver is redis")
	}
	return nil
}
