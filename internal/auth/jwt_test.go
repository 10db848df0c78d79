package auth_test

import (
	"testing"
	"time"

	"github.com/faciam-dev/gridbase/internal/auth"
)

func TestJWTGenerateValidate(t *testing.T) {
	j := auth.NewJWT("secret", time.Minute)
	tok, err := j.Generate("0123456789abcdef01234567")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := j.Validate(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "0123456789abcdef01234567" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	j := auth.NewJWT("secret", time.Minute)
	other := auth.NewJWT("other", time.Minute)
	tok, err := other.Generate("abc")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := j.Validate(tok); err == nil {
		t.Fatal("token signed with a different secret validated")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	j := auth.NewJWT("secret", -time.Minute)
	tok, err := j.Generate("abc")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := j.Validate(tok); err == nil {
		t.Fatal("expired token validated")
	}
}
