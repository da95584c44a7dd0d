// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp runs the one-time-code workflows that gate account creation
// and account edits.
package otp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/metrics"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
)

// AccountStore is the account persistence used by Service.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdateAccount(ctx context.Context, acc *models.Account) error
}

// Store holds pending codes. Implementations never return records older
// than TTL.
type Store interface {
	TTL() time.Duration
	Put(ctx context.Context, rec *models.OTP) error
	FindByCode(ctx context.Context, email, code string, purpose models.Purpose) (*models.OTP, error)
	FindLatest(ctx context.Context, email string, purpose models.Purpose) (*models.OTP, error)
	Refresh(ctx context.Context, rec *models.OTP, code string) error
	DeleteAll(ctx context.Context, email string, purpose models.Purpose) error
	DeleteByID(ctx context.Context, id string) error
}

// Notifier delivers rendered emails.
type Notifier interface {
	Notify(ctx context.Context, msg email.Message, p email.Priority) error
}

// Service issues and redeems one-time codes and applies the account change
// each code was issued for.
type Service struct {
	accounts AccountStore
	store    Store
	notifier Notifier
	codes    func() (string, error)
	hash     func(string) (string, error)
	check    func(hash, password string) bool
}

// Option configures a Service.
type Option func(*Service)

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		s.codes = fn
	}
}

// WithPasswordHasher sets how passwords are hashed and compared.
func WithPasswordHasher(hash func(string) (string, error), check func(hash, password string) bool) Option {
	return func(s *Service) {
		s.hash = hash
		s.check = check
	}
}

// NewService creates a Service. Codes come from GenerateCode and passwords
// are hashed with bcrypt unless options say otherwise.
func NewService(accounts AccountStore, store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		store:    store,
		notifier: notifier,
		codes:    GenerateCode,
		hash:     auth.HashPassword,
		check:    auth.CheckPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// issue replaces every record for (rec.Email, rec.Purpose) with rec under
// a fresh code.
func (s *Service) issue(ctx context.Context, rec *models.OTP) error {
	if err := s.store.DeleteAll(ctx, rec.Email, rec.Purpose); err != nil {
		return err
	}
	code, err := s.codes()
	if err != nil {
		return err
	}
	rec.Code = code
	if err := s.store.Put(ctx, rec); err != nil {
		return err
	}
	metrics.OTPIssued(string(rec.Purpose))
	slog.InfoContext(ctx, "otp_issued", "purpose", rec.Purpose, "email", rec.Email,
		"expires_at", rec.ExpiresAt(s.store.TTL()))
	return nil
}

// redeem looks up a live record and records the verification outcome.
func (s *Service) redeem(ctx context.Context, addr, code string, purpose models.Purpose, accountID string) (*models.OTP, error) {
	rec, err := s.store.FindByCode(ctx, addr, code, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.OTPVerified(string(purpose), false)
			slog.WarnContext(ctx, "otp_rejected", "purpose", purpose, "email", addr)
			return nil, nil
		}
		return nil, err
	}
	if owner := rec.Payload[models.PayloadAccountID]; accountID != "" && owner != "" && owner != accountID {
		metrics.OTPVerified(string(purpose), false)
		slog.WarnContext(ctx, "otp_rejected", "purpose", purpose, "email", addr, "reason", "account_mismatch")
		return nil, nil
	}
	return rec, nil
}

// consume deletes a redeemed record. The mutation has already been
// applied, so a failure here is logged and left to expiry.
func (s *Service) consume(ctx context.Context, rec *models.OTP) {
	if err := s.store.DeleteByID(ctx, rec.ID); err != nil {
		slog.ErrorContext(ctx, "otp_delete_failed", "purpose", rec.Purpose, "error", err)
	}
	metrics.OTPVerified(string(rec.Purpose), true)
	slog.InfoContext(ctx, "otp_verified", "purpose", rec.Purpose, "email", rec.Email)
}

// send dispatches a rendered message. Only critical sends report failure.
func (s *Service) send(ctx context.Context, msg email.Message, err error, p email.Priority) error {
	if err != nil {
		if p == email.Critical {
			return err
		}
		slog.ErrorContext(ctx, "email_render_failed", "kind", msg.Kind, "error", err)
		return nil
	}
	return s.notifier.Notify(ctx, msg, p)
}

func (s *Service) accountByID(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.accounts.GetAccountByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.NotFound, "User not found")
	}
	return acc, err
}

// exists reports whether lookup finds an account.
func exists(ctx context.Context, lookup func(context.Context, string) (*models.Account, error), key string) (bool, error) {
	_, err := lookup(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// fail passes client-facing errors through and wraps everything else
// with message.
func fail(err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Wrap(err, message)
}
