package tenant

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Lookup when no active tenant owns a domain.
	ErrNotFound = errors.New("tenant not found")

	// ErrDuplicateDomain is returned by a Lookup when the store holds more
	// than one active tenant for a domain.
	ErrDuplicateDomain = errors.New("tenant: duplicate domain")

	// ErrLookupFailed marks storage or transport failures during resolution.
	// Match it with errors.Is; the concrete error is a *LookupError.
	ErrLookupFailed = errors.New("tenant: lookup failed")

	// ErrInvalidHost is returned by NormalizeHost for unusable host strings.
	ErrInvalidHost = errors.New("tenant: invalid host")

	// ErrNoRequest is returned when no resolution is attached to a context.
	ErrNoRequest = errors.New("tenant: no resolution in context")
)

// LookupError wraps a failed tenant lookup for one host.
type LookupError struct {
	Host string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("tenant: lookup %q: %v", e.Host, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is reports ErrLookupFailed as a match so callers never need the type.
func (e *LookupError) Is(target error) bool { return target == ErrLookupFailed }
