package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		plain string
		want  error
	}{
		{"", ErrPasswordTooShort},
		{"short7!", ErrPasswordTooShort},
		{"exactly8", nil},
		{strings.Repeat("a", 72), nil},
		{strings.Repeat("a", 73), ErrPasswordTooLong},
	}
	for _, tc := range cases {
		if got := ValidatePassword(tc.plain); got != tc.want {
			t.Fatalf("ValidatePassword(%d chars) = %v, want %v", len(tc.plain), got, tc.want)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(hash, "correct horse") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "battery staple") {
		t.Fatal("wrong password accepted")
	}
}
