package auth

import (
	"errors"
	"testing"
	"time"

	"cfp-engine/internal/config"
)

func newTestService(expiration time.Duration) *Service {
	return NewService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: expiration,
	})
}

func TestHashToken(t *testing.T) {
	token := "invite-token-123"
	hash, err := HashToken(token)
	if err != nil {
		t.Fatalf("Failed to hash token: %v", err)
	}

	if hash == "" {
		t.Error("Hash should not be empty")
	}

	if hash == token {
		t.Error("Hash should not equal the original token")
	}
}

func TestVerifyToken(t *testing.T) {
	token := "invite-token-123"
	hash, err := HashToken(token)
	if err != nil {
		t.Fatalf("Failed to hash token: %v", err)
	}

	if err := VerifyToken(hash, token); err != nil {
		t.Errorf("Should verify correct token, got error: %v", err)
	}

	if err := VerifyToken(hash, "wrong-token"); err == nil {
		t.Error("Should not verify incorrect token")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(24 * time.Hour)

	token, err := svc.GenerateToken(KindReviewer, "  Reviewer@Example.com ")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.Kind != KindReviewer {
		t.Errorf("Expected kind %s, got %s", KindReviewer, claims.Kind)
	}
	if claims.Email != "reviewer@example.com" {
		t.Errorf("Expected normalized email, got %s", claims.Email)
	}
	if claims.ID == "" {
		t.Error("Expected a JTI")
	}
}

func TestGenerateTokenRejectsUnknownKind(t *testing.T) {
	svc := newTestService(time.Hour)

	if _, err := svc.GenerateToken("superuser", "a@example.com"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Expected ErrInvalidKind, got %v", err)
	}
}

func TestValidateInvalidToken(t *testing.T) {
	svc := newTestService(time.Hour)

	if _, err := svc.ValidateToken("invalid.token.here"); err == nil {
		t.Error("Should fail to validate invalid token")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Hour)

	token, err := svc.GenerateToken(KindSpeaker, "speaker@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenFromOtherKey(t *testing.T) {
	issuer := newTestService(time.Hour)
	verifier := newTestService(time.Hour)

	token, err := issuer.GenerateToken(KindAdmin, "admin@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Token signed with a different key should be rejected")
	}
}

func TestGenerateRandomToken(t *testing.T) {
	token1, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("Failed to generate random token: %v", err)
	}

	token2, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("Failed to generate random token: %v", err)
	}

	if token1 == token2 {
		t.Error("Random tokens should be different")
	}
}
