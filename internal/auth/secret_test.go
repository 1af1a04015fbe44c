package auth

import (
	"strings"
	"testing"
)

func TestSecretBoxRoundTrip(t *testing.T) {
	box := NewSecretBox("key-material")

	sealed, err := box.Seal("the-shared-secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if sealed == "the-shared-secret" {
		t.Fatal("sealed token equals plaintext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "the-shared-secret" {
		t.Fatalf("got %q, want the-shared-secret", opened)
	}
}

func TestSecretBoxTamperRejected(t *testing.T) {
	box := NewSecretBox("key-material")

	sealed, err := box.Seal("secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	// Flip one character of the token body.
	tampered := []byte(sealed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if _, err := box.Open(string(tampered)); err == nil {
		t.Fatal("expected tampered token to fail")
	}
}

func TestSecretBoxWrongKey(t *testing.T) {
	sealed, err := NewSecretBox("key-a").Seal("secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := NewSecretBox("key-b").Open(sealed); err == nil {
		t.Fatal("expected token sealed under another key to fail")
	}
}

func TestSecretBoxMalformed(t *testing.T) {
	box := NewSecretBox("key-material")

	for _, in := range []string{"", "!!!not-base64!!!", "c2hvcnQ"} {
		if _, err := box.Open(in); err == nil {
			t.Errorf("Open(%q) succeeded, want error", in)
		}
	}
}

func TestNewSharedSecret(t *testing.T) {
	a, err := NewSharedSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := NewSharedSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(a) != 64 {
		t.Fatalf("secret length %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Fatal("two generated secrets are equal")
	}
}

func TestNewSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewSessionID()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(id) < 20 {
			t.Fatalf("session id %q too short", id)
		}
		if strings.ContainsAny(id, "+/=") {
			t.Fatalf("session id %q not URL safe", id)
		}
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}
