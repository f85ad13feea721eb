package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		username string
		password string
		want     error
	}{
		{"leo", "secret123", nil},
		{"first.last@home+1", "secret123", nil},
		{"", "secret123", ErrInvalidUsername},
		{"with space", "secret123", ErrInvalidUsername},
		{strings.Repeat("a", 151), "secret123", ErrInvalidUsername},
		{"leo", "short", ErrWeakPassword},
	}
	for i, c := range cases {
		if err := ValidateCredentials(c.username, c.password); !errors.Is(err, c.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, c.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !CheckPassword(hash, "super-secret") {
		t.Fatal("check failed for the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected failure for wrong password")
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	got := Sanitize("  hello <script>alert(1)</script><b>world</b> ")
	if strings.Contains(got, "script") {
		t.Fatalf("script survived: %q", got)
	}
	if got != "hello <b>world</b>" {
		t.Fatalf("Sanitize = %q", got)
	}
}
