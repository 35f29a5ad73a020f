package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CFP.MaxSubmissionsPerSpeaker != 5 {
		t.Errorf("MaxSubmissionsPerSpeaker = %d, want 5", cfg.CFP.MaxSubmissionsPerSpeaker)
	}
	if cfg.CFP.ReviewScoreMax != 10 {
		t.Errorf("ReviewScoreMax = %d, want 10", cfg.CFP.ReviewScoreMax)
	}
	if cfg.Delivery.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.Delivery.PollInterval)
	}
	if cfg.Database.MigrationsPath != "./migrations" {
		t.Errorf("MigrationsPath = %q", cfg.Database.MigrationsPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CFP_MAX_SUBMISSIONS_PER_SPEAKER", "3")
	t.Setenv("DELIVERY_POLL_INTERVAL", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CFP.MaxSubmissionsPerSpeaker != 3 {
		t.Errorf("MaxSubmissionsPerSpeaker = %d, want 3", cfg.CFP.MaxSubmissionsPerSpeaker)
	}
	if cfg.Delivery.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Delivery.PollInterval)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be false")
	}
}

func TestInvalidNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("CFP_REVIEW_SCORE_MAX", "ten")
	t.Setenv("DELIVERY_POLL_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CFP.ReviewScoreMax != 10 {
		t.Errorf("ReviewScoreMax = %d, want default 10", cfg.CFP.ReviewScoreMax)
	}
	if cfg.Delivery.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want default", cfg.Delivery.PollInterval)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:      AppConfig{Env: "development"},
			CFP:      CFPConfig{MaxSubmissionsPerSpeaker: 5, ReviewScoreMax: 10},
			Delivery: DeliveryConfig{BatchSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"development defaults", func(c *Config) {}, false},
		{"production without jwt secret", func(c *Config) {
			c.App.Env = "production"
			c.Database.Password = "secret"
		}, true},
		{"production without db password", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "pem"
		}, true},
		{"zero quota", func(c *Config) { c.CFP.MaxSubmissionsPerSpeaker = 0 }, true},
		{"zero score max", func(c *Config) { c.CFP.ReviewScoreMax = 0 }, true},
		{"vault without token", func(c *Config) { c.Vault.Enabled = true }, true},
		{"zero batch size", func(c *Config) { c.Delivery.BatchSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
