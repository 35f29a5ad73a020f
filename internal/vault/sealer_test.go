package vault_test

import (
	"context"
	"strings"
	"testing"

	"cfp-engine/internal/testutil"
	"cfp-engine/internal/vault"
)

func TestTransitSealerRoundTrip(t *testing.T) {
	addr := testutil.SetupVault(t)
	ctx := context.Background()

	sealer, err := vault.NewTransitSealer(ctx, &vault.Config{
		Address:      addr,
		Token:        testutil.VaultToken,
		TransitMount: "transit",
		KeyName:      "review-notes",
	})
	if err != nil {
		t.Fatalf("NewTransitSealer failed: %v", err)
	}

	if err := sealer.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}

	sealed, err := sealer.Seal(ctx, "borderline, ask the track chair")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !strings.HasPrefix(sealed, "vault:v1:") {
		t.Errorf("Expected vault ciphertext, got %q", sealed)
	}

	opened, err := sealer.Open(ctx, sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened != "borderline, ask the track chair" {
		t.Errorf("Round trip mismatch: %q", opened)
	}

	legacy, err := sealer.Open(ctx, "written before sealing")
	if err != nil || legacy != "written before sealing" {
		t.Errorf("Expected unsealed value to pass through, got %q %v", legacy, err)
	}

	// A second sealer on the same mount must reuse the existing key
	again, err := vault.NewTransitSealer(ctx, &vault.Config{
		Address:      addr,
		Token:        testutil.VaultToken,
		TransitMount: "transit",
		KeyName:      "review-notes",
	})
	if err != nil {
		t.Fatalf("Second NewTransitSealer failed: %v", err)
	}
	if opened, err := again.Open(ctx, sealed); err != nil || opened != "borderline, ask the track chair" {
		t.Errorf("Expected second sealer to open existing ciphertext, got %q %v", opened, err)
	}
}

func TestPlainSealer(t *testing.T) {
	var s vault.Sealer = vault.PlainSealer{}
	sealed, _ := s.Seal(context.Background(), "note")
	opened, _ := s.Open(context.Background(), sealed)
	if sealed != "note" || opened != "note" {
		t.Errorf("PlainSealer should be the identity, got %q %q", sealed, opened)
	}
}
