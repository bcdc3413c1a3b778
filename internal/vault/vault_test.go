package vault

import (
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("vault:secret/tenantgate/db#password")
	if err != nil {
		t.Fatalf("ParseRef error: %v", err)
	}
	if path != "secret/tenantgate/db" || key != "password" {
		t.Fatalf("got (%q, %q)", path, key)
	}

	for _, bad := range []string{
		"secret/db#password",    // no prefix
		"vault:secret/db",       // no key
		"vault:#password",       // no path
		"vault:secret#password", // no mount separator
		"vault:secret/db#",      // empty key
	} {
		if _, _, err := ParseRef(bad); !errors.Is(err, ErrBadRef) {
			t.Errorf("ParseRef(%q) = %v, want ErrBadRef", bad, err)
		}
	}
}

func TestIsRef(t *testing.T) {
	if !IsRef("vault:secret/x#y") {
		t.Error("IsRef should accept vault: prefix")
	}
	if IsRef("plain-password") {
		t.Error("IsRef should reject plain values")
	}
}

func TestSplitMount(t *testing.T) {
	mount, rel := splitMount("secret/tenantgate/db")
	if mount != "secret" || rel != "tenantgate/db" {
		t.Fatalf("got (%q, %q)", mount, rel)
	}
}
