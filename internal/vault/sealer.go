// Package vault seals reviewers' private notes at rest.
package vault

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
)

// Sealer encrypts and decrypts short text values
type Sealer interface {
	Seal(ctx context.Context, plaintext string) (string, error)
	Open(ctx context.Context, sealed string) (string, error)
}

// Config holds Vault configuration
type Config struct {
	Address      string
	Token        string
	TransitMount string
	KeyName      string
}

// TransitSealer encrypts with a Vault transit key
type TransitSealer struct {
	client       *api.Client
	transitMount string
	keyName      string
}

// NewTransitSealer connects to Vault, mounts the transit engine if needed and
// creates the named key.
func NewTransitSealer(ctx context.Context, cfg *Config) (*TransitSealer, error) {
	config := api.DefaultConfig()
	config.Address = cfg.Address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	s := &TransitSealer{
		client:       client,
		transitMount: cfg.TransitMount,
		keyName:      cfg.KeyName,
	}

	if err := s.initTransitEngine(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize transit engine: %w", err)
	}
	if err := s.createKey(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *TransitSealer) initTransitEngine(ctx context.Context) error {
	mounts, err := s.client.Sys().ListMountsWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to list mounts: %w", err)
	}

	if _, exists := mounts[s.transitMount+"/"]; exists {
		return nil
	}

	err = s.client.Sys().MountWithContext(ctx, s.transitMount, &api.MountInput{
		Type:        "transit",
		Description: "Transit encryption for CFP review notes",
	})
	if err != nil {
		return fmt.Errorf("failed to mount transit engine: %w", err)
	}
	return nil
}

// createKey is a no-op in Vault when the key already exists
func (s *TransitSealer) createKey(ctx context.Context) error {
	path := fmt.Sprintf("%s/keys/%s", s.transitMount, s.keyName)
	data := map[string]interface{}{
		"type":       "aes256-gcm96",
		"exportable": false,
	}
	if _, err := s.client.Logical().WriteWithContext(ctx, path, data); err != nil {
		return fmt.Errorf("failed to create key %s: %w", s.keyName, err)
	}
	return nil
}

// Seal encrypts plaintext and returns a vault:v1:... ciphertext
func (s *TransitSealer) Seal(ctx context.Context, plaintext string) (string, error) {
	path := fmt.Sprintf("%s/encrypt/%s", s.transitMount, s.keyName)
	data := map[string]interface{}{
		"plaintext": base64.StdEncoding.EncodeToString([]byte(plaintext)),
	}

	secret, err := s.client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	if secret == nil {
		return "", fmt.Errorf("empty encrypt response")
	}

	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok {
		return "", fmt.Errorf("invalid ciphertext response")
	}
	return ciphertext, nil
}

// Open decrypts a value produced by Seal. Values without the vault prefix are
// returned unchanged so notes written before sealing was enabled stay readable.
func (s *TransitSealer) Open(ctx context.Context, sealed string) (string, error) {
	if !strings.HasPrefix(sealed, "vault:") {
		return sealed, nil
	}

	path := fmt.Sprintf("%s/decrypt/%s", s.transitMount, s.keyName)
	data := map[string]interface{}{
		"ciphertext": sealed,
	}

	secret, err := s.client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	if secret == nil {
		return "", fmt.Errorf("empty decrypt response")
	}

	encoded, ok := secret.Data["plaintext"].(string)
	if !ok {
		return "", fmt.Errorf("invalid plaintext response")
	}

	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode plaintext: %w", err)
	}
	return string(plaintext), nil
}

// HealthCheck reports whether Vault is reachable and unsealed
func (s *TransitSealer) HealthCheck(ctx context.Context) error {
	health, err := s.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}
	return nil
}

// PlainSealer stores values unchanged; used when Vault is disabled
type PlainSealer struct{}

func (PlainSealer) Seal(_ context.Context, plaintext string) (string, error) { return plaintext, nil }

func (PlainSealer) Open(_ context.Context, sealed string) (string, error) { return sealed, nil }
