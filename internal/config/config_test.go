// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "http default port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "http custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 3000}},
			expected: "http://localhost:3000",
		},
		{
			name: "secure default port",
			cfg: &Config{
				Server:  ServerConfig{Host: "api.zblogs.dev", Port: 443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://api.zblogs.dev",
		},
		{
			name: "secure custom port",
			cfg: &Config{
				Server:  ServerConfig{Host: "api.zblogs.dev", Port: 8443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://api.zblogs.dev:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func validConfig() *Config {
	return &Config{
		Email: EmailConfig{Provider: EmailProviderLog},
		OTP:   OTPConfig{Store: OTPStoreSQLite, TTL: 5 * time.Minute},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("brevo without key is accepted", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Provider = EmailProviderBrevo
		assert.NoError(t, cfg.Validate())
	})

	t.Run("smtp requires host", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Provider = EmailProviderSMTP
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp-host")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Provider = "pigeon"
		assert.ErrorContains(t, cfg.Validate(), "unknown email provider")
	})

	t.Run("redis requires url", func(t *testing.T) {
		cfg := validConfig()
		cfg.OTP.Store = OTPStoreRedis
		assert.ErrorContains(t, cfg.Validate(), "redis-url")
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := validConfig()
		cfg.OTP.Store = "memcached"
		assert.ErrorContains(t, cfg.Validate(), "unknown otp store")
	})

	t.Run("ttl must be positive", func(t *testing.T) {
		cfg := validConfig()
		cfg.OTP.TTL = 0
		assert.ErrorContains(t, cfg.Validate(), "otp-ttl")
	})
}

func TestFlags(t *testing.T) {
	flags := Flags()

	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range []string{
		"host", "port", "base-url", "log-level", "database-dsn",
		"session-cookie-name", "email-provider", "brevo-api-key",
		"brevo-from-email", "brevo-from-name", "otp-store", "otp-ttl", "redis-url",
	} {
		assert.True(t, flagNames[name], "should have %s flag", name)
	}
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 3000, cfg.Server.Port)
			assert.Equal(t, 10, cfg.Server.MaxBodySize)
			assert.Equal(t, DefaultAllowedOrigins, cfg.Server.AllowedOrigins)
			assert.Equal(t, "access_token", cfg.Session.CookieName)
			assert.Equal(t, 604800, cfg.Session.MaxAge)
			assert.Equal(t, "Z Blogs", cfg.Email.Brevo.FromName)
			assert.Equal(t, "https://api.brevo.com/v3/smtp/email", cfg.Email.Brevo.Endpoint)
			assert.Equal(t, OTPStoreSQLite, cfg.OTP.Store)
			assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
			assert.Equal(t, "@every 1m", cfg.OTP.PurgeSchedule)
			assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://api.example.com", cfg.Server.BaseURL)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, EmailProviderLog, cfg.Email.Provider)
			assert.Equal(t, OTPStoreRedis, cfg.OTP.Store)
			assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
			assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
			assert.Equal(t, "root@x.com", cfg.Admin.Email)
			assert.True(t, cfg.Session.Secure)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://api.example.com",
		"--database-dsn", "./data/test.db",
		"--email-provider", "LOG",
		"--otp-store", "redis",
		"--redis-url", "redis://localhost:6379/0",
		"--otp-ttl", "2m",
		"--admin-email", " Root@X.com ",
		"--session-secure",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
