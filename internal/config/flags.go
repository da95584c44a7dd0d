// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"time"

	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

func source(env, key string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(cli.EnvVar(env), toml.TOML(key, configFile))
}

// DefaultAllowedOrigins are the local development frontends.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
	"http://127.0.0.1:5175",
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: source("HOST", "server.host"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   3000,
			Usage:   "Port to listen on",
			Sources: source("PORT", "server.port"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: source("BASE_URL", "server.base_url"),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   10,
			Usage:   "Maximum request body size in MB",
			Sources: source("MAX_BODY_SIZE", "server.max_body_size"),
		},
		&cli.StringSliceFlag{
			Name:    "cors-allowed-origins",
			Value:   DefaultAllowedOrigins,
			Usage:   "Origins allowed to call the API with credentials",
			Sources: source("CORS_ALLOWED_ORIGINS", "server.cors_allowed_origins"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: source("LOG_LEVEL", "log.level"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: source("LOG_FORMAT", "log.format"),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/zblogs.db",
			Usage:   "Database DSN",
			Sources: source("DATABASE_DSN", "database.dsn"),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "access_token",
			Usage:   "Session cookie name",
			Sources: source("SESSION_COOKIE_NAME", "session.cookie_name"),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: source("SESSION_MAX_AGE", "session.max_age"),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: source("SESSION_HASH_KEY", "session.hash_key"),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: source("SESSION_BLOCK_KEY", "session.block_key"),
		},
		&cli.BoolFlag{
			Name:    "session-secure",
			Usage:   "Mark the session cookie Secure with SameSite=None (production)",
			Sources: source("SESSION_SECURE", "session.secure"),
		},
		// Email flags
		&cli.StringFlag{
			Name:    "email-provider",
			Value:   EmailProviderBrevo,
			Usage:   "Email provider (brevo, smtp, log)",
			Sources: source("EMAIL_PROVIDER", "email.provider"),
		},
		&cli.StringFlag{
			Name:    "brevo-api-key",
			Usage:   "Brevo API key",
			Sources: source("BREVO_API_KEY", "email.brevo.api_key"),
		},
		&cli.StringFlag{
			Name:    "brevo-from-email",
			Usage:   "Verified Brevo sender address",
			Sources: source("BREVO_FROM_EMAIL", "email.brevo.from_email"),
		},
		&cli.StringFlag{
			Name:    "brevo-from-name",
			Value:   "Z Blogs",
			Usage:   "Brevo sender display name",
			Sources: source("BREVO_FROM_NAME", "email.brevo.from_name"),
		},
		&cli.StringFlag{
			Name:    "brevo-endpoint",
			Value:   "https://api.brevo.com/v3/smtp/email",
			Usage:   "Brevo transactional email endpoint",
			Sources: source("BREVO_ENDPOINT", "email.brevo.endpoint"),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: source("SMTP_HOST", "email.smtp.host"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: source("SMTP_PORT", "email.smtp.port"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: source("SMTP_USERNAME", "email.smtp.username"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: source("SMTP_PASSWORD", "email.smtp.password"),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "SMTP sender address",
			Sources: source("SMTP_FROM", "email.smtp.from"),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Z Blogs",
			Usage:   "SMTP sender display name",
			Sources: source("SMTP_FROM_NAME", "email.smtp.from_name"),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: source("SMTP_TLS", "email.smtp.tls"),
		},
		// OTP flags
		&cli.StringFlag{
			Name:    "otp-store",
			Value:   OTPStoreSQLite,
			Usage:   "OTP storage backend (sqlite, redis)",
			Sources: source("OTP_STORE", "otp.store"),
		},
		&cli.DurationFlag{
			Name:    "otp-ttl",
			Value:   5 * time.Minute,
			Usage:   "How long a one-time code stays valid",
			Sources: source("OTP_TTL", "otp.ttl"),
		},
		&cli.StringFlag{
			Name:    "otp-purge-schedule",
			Value:   "@every 1m",
			Usage:   "Cron schedule for purging expired codes from sqlite",
			Sources: source("OTP_PURGE_SCHEDULE", "otp.purge_schedule"),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the redis otp store",
			Sources: source("REDIS_URL", "redis.url"),
		},
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Email of an account to promote to admin on startup",
			Sources: source("ADMIN_EMAIL", "admin.email"),
		},
	}
}
