package session

import (
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	mgr, err := NewManager("secret", 8*time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	now := time.Now().UTC()
	token, err := mgr.Mint(now)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("expected subject admin, got %s", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatal("expected non-empty jti")
	}

	exp := now.Add(8 * time.Hour)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mgr, err := NewManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := mgr.Mint(time.Now())
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other, err := NewManager("different", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse to fail with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	mgr, err := NewManager("secret", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := mgr.Mint(time.Now().Add(-2 * time.Hour))
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	if _, err := mgr.Parse(token); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewManager("secret", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
