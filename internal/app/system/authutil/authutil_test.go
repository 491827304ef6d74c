package authutil

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected matching password to check")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("expected wrong password to fail")
	}
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	if CheckPassword("", "") {
		t.Error("empty hash must never match")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("empty: got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("long: got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72 bytes should be accepted: %v", err)
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"test@example.com", true},
		{"user@domain.org", true},
		{"name.surname@company.co.uk", true},
		{"a@b.co", true},
		{"testexample.com", false},
		{"test@@example.com", false},
		{"@example.com", false},
		{"test@example", false},
		{"test@example.", false},
		{"test@.com", false},
		{"Pat <pat@example.com>", false},
		{" pat@example.com", false},
		{"not an address@", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
