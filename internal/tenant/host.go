// internal/tenant/host.go
//
// Host normalization.
//
// Every comparison against stored domains goes through NormalizeHost so
// "ACME.example.com:8443", "acme.example.com.", and "acme.example.com"
// all select the same tenant.  Steps, in order:
//
//  1. Trim surrounding whitespace.
//  2. Strip a port suffix, including the bracketed IPv6 form.
//  3. Drop one trailing dot (fully qualified form).
//  4. Convert to the ASCII (punycode) form with the IDNA lookup profile,
//     which also lower-cases.
//
// Stored domains and the configured admin domain must already be in this
// form; the CLI and config loader normalize them on the way in.
package tenant

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false), // allow "_" for internal dev hosts
)

// NormalizeHost returns the canonical lookup key for raw.  It returns
// ErrInvalidHost when nothing usable remains.
func NormalizeHost(raw string) (string, error) {
	h := strings.TrimSpace(raw)
	if h == "" {
		return "", ErrInvalidHost
	}

	h = stripPort(h)
	h = strings.TrimSuffix(h, ".")
	if h == "" {
		return "", ErrInvalidHost
	}

	// IP literals pass through untouched apart from case.
	if ip := net.ParseIP(h); ip != nil {
		return strings.ToLower(ip.String()), nil
	}

	ascii, err := hostProfile.ToASCII(h)
	if err != nil || !validLabels(ascii) {
		return "", ErrInvalidHost
	}
	return strings.ToLower(ascii), nil
}

// validLabels rejects empty labels and anything outside [A-Za-z0-9_-].
func validLabels(h string) bool {
	if h == "" || len(h) > 253 {
		return false
	}
	for _, label := range strings.Split(h, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			case c == '-' || c == '_':
			default:
				return false
			}
		}
	}
	return true
}

// stripPort removes ":port" from h and the brackets around IPv6 literals.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	if strings.HasPrefix(h, "[") && strings.HasSuffix(h, "]") {
		return h[1 : len(h)-1]
	}
	return h
}
