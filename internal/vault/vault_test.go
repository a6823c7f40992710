package vault

import (
	"bytes"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	v := New("correct horse battery staple")

	sealed, err := v.Seal([]byte("sk-test-key"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("sk-test-key")) {
		t.Fatal("sealed blob contains plaintext")
	}

	plain, err := v.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(plain) != "sk-test-key" {
		t.Errorf("expected sk-test-key, got %s", plain)
	}
}

func TestKeyDerivationStable(t *testing.T) {
	// Same passphrase in a fresh vault must open old blobs.
	sealed, err := New("passphrase").Seal([]byte("value"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	plain, err := New("passphrase").Open(sealed)
	if err != nil {
		t.Fatalf("open with fresh vault: %v", err)
	}
	if string(plain) != "value" {
		t.Errorf("expected value, got %s", plain)
	}
}

func TestWrongPassphrase(t *testing.T) {
	sealed, err := New("right").Seal([]byte("value"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := New("wrong").Open(sealed); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestOpenTruncated(t *testing.T) {
	v := New("passphrase")
	if _, err := v.Open([]byte("short")); err != ErrSealedTooShort {
		t.Errorf("expected ErrSealedTooShort, got %v", err)
	}
}

func TestSealNondeterministic(t *testing.T) {
	v := New("passphrase")
	a, err := v.Seal([]byte("value"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Seal([]byte("value"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("expected distinct nonces for repeated seals")
	}
}
