package security_test

import (
	"testing"

	"github.com/arto/mercator-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	params := security.ArgonParams{
		Memory:      32768,
		Time:        1,
		Parallelism: 1,
		SaltLen:     16,
		KeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", params)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestConstantTimeEquals(t *testing.T) {
	if !security.ConstantTimeEquals("secret", "secret") {
		t.Fatal("expected equal secrets to match")
	}
	if security.ConstantTimeEquals("secret", "other") {
		t.Fatal("expected different secrets to mismatch")
	}
}
