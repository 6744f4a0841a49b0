package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret1" || strings.Contains(hash, "secret1") {
		t.Fatalf("hash reveals the password: %q", hash)
	}
	if !ComparePassword(hash, "secret1") {
		t.Fatal("expected password to match its hash")
	}
	if ComparePassword(hash, "secret2") {
		t.Fatal("expected wrong password to be rejected")
	}
}

func TestHashPassword_SaltedAndCost(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (salt)")
	}

	cost, err := bcrypt.Cost([]byte(a))
	if err != nil {
		t.Fatalf("bcrypt.Cost error: %v", err)
	}
	if cost != PasswordCost {
		t.Fatalf("cost mismatch: got %d want %d", cost, PasswordCost)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1)); err == nil {
		t.Fatal("expected error for password over bcrypt limit")
	}
}

func TestComparePassword_GarbageHash(t *testing.T) {
	t.Parallel()

	if ComparePassword("not-a-bcrypt-hash", "secret1") {
		t.Fatal("garbage hash must never match")
	}
}
