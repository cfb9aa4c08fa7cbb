package devtoken

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ostvang/leaguedesk/internal/usecase"
)

func TestVerifier_SignAndVerify(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier("local-dev-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := verifier.Sign("user-marit", "marit@example.com", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	principal, err := verifier.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if principal.UserID != "user-marit" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if principal.Email != "marit@example.com" {
		t.Fatalf("unexpected email: %s", principal.Email)
	}
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier("local-dev-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := verifier.Sign("user-marit", "", -time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := NewVerifier("secret-one")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	verifier, err := NewVerifier("secret-two")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := signer.Sign("user-marit", "", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("  "); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
