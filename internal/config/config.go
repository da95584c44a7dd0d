// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// Email providers.
const (
	EmailProviderBrevo = "brevo"
	EmailProviderSMTP  = "smtp"
	EmailProviderLog   = "log"
)

// OTP store backends.
const (
	OTPStoreSQLite = "sqlite"
	OTPStoreRedis  = "redis"
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Email    EmailConfig
	OTP      OTPConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host           string
	Port           int
	BaseURL        string
	MaxBodySize    int // in MB
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
	Secure     bool   // Secure flag and SameSite=None for cross-site clients
}

// EmailConfig selects and configures the outbound mail transport.
type EmailConfig struct { //nolint:govet // fieldalignment not critical
	Provider string // brevo, smtp, log
	Brevo    BrevoConfig
	SMTP     SMTPConfig
}

// BrevoConfig holds the Brevo transactional API settings.
type BrevoConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
	Endpoint    string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// OTPConfig controls code lifetime and storage.
type OTPConfig struct {
	Store         string // sqlite, redis
	TTL           time.Duration
	PurgeSchedule string // cron schedule for deleting expired sqlite rows
}

type RedisConfig struct {
	URL string
}

// AdminConfig names an account promoted to admin at startup.
type AdminConfig struct {
	Email string
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:           cmd.String("host"),
			Port:           int(cmd.Int("port")),
			BaseURL:        cmd.String("base-url"),
			MaxBodySize:    int(cmd.Int("max-body-size")),
			AllowedOrigins: cmd.StringSlice("cors-allowed-origins"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
			Secure:     cmd.Bool("session-secure"),
		},
		Email: EmailConfig{
			Provider: strings.ToLower(cmd.String("email-provider")),
			Brevo: BrevoConfig{
				APIKey:      cmd.String("brevo-api-key"),
				FromAddress: cmd.String("brevo-from-email"),
				FromName:    cmd.String("brevo-from-name"),
				Endpoint:    cmd.String("brevo-endpoint"),
			},
			SMTP: SMTPConfig{
				Host:     cmd.String("smtp-host"),
				Port:     int(cmd.Int("smtp-port")),
				Username: cmd.String("smtp-username"),
				Password: cmd.String("smtp-password"),
				From:     cmd.String("smtp-from"),
				FromName: cmd.String("smtp-from-name"),
				TLS:      cmd.Bool("smtp-tls"),
			},
		},
		OTP: OTPConfig{
			Store:         strings.ToLower(cmd.String("otp-store")),
			TTL:           cmd.Duration("otp-ttl"),
			PurgeSchedule: cmd.String("otp-purge-schedule"),
		},
		Redis: RedisConfig{
			URL: cmd.String("redis-url"),
		},
		Admin: AdminConfig{
			Email: strings.ToLower(strings.TrimSpace(cmd.String("admin-email"))),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

// Validate checks that the selected backends are fully configured.
func (c *Config) Validate() error {
	var errs []error

	switch c.Email.Provider {
	case EmailProviderBrevo:
		// Missing Brevo credentials are reported per send, like an unconfigured relay.
	case EmailProviderSMTP:
		if c.Email.SMTP.Host == "" {
			errs = append(errs, errors.New("smtp-host is required for the smtp provider"))
		}
	case EmailProviderLog:
	default:
		errs = append(errs, fmt.Errorf("unknown email provider %q", c.Email.Provider))
	}

	switch c.OTP.Store {
	case OTPStoreSQLite:
	case OTPStoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis-url is required for the redis otp store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown otp store %q", c.OTP.Store))
	}

	if c.OTP.TTL <= 0 {
		errs = append(errs, errors.New("otp-ttl must be positive"))
	}

	return errors.Join(errs...)
}

func buildBaseURL(cfg *Config) string {
	scheme := "http"
	if cfg.Session.Secure {
		scheme = "https"
	}
	port := cfg.Server.Port

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, cfg.Server.Host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Server.Host, port)
}
