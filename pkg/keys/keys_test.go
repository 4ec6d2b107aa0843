package keys

import (
	"strings"
	"testing"
)

func TestNewKeyIsURLSafeAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key, err := NewKey()
		if err != nil {
			t.Fatalf("NewKey failed: %v", err)
		}
		if key == "" {
			t.Fatal("expected non-empty key")
		}
		if strings.ContainsAny(key, "+/=") {
			t.Fatalf("key %q is not url-safe", key)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %q", key)
		}
		seen[key] = true
	}
}

func TestNewKeyPairDistinct(t *testing.T) {
	pub, priv, err := NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair failed: %v", err)
	}
	if pub == priv {
		t.Fatal("public and private keys must differ")
	}
}
