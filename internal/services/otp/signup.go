// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/metrics"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
	"codeberg.org/zblogs/zblogs-api/internal/validate"
)

const (
	msgSignupSendFailed   = "Failed to send OTP. Please try again."
	msgSignupVerifyFailed = "Failed to verify OTP. Please try again."
	msgResendFailed       = "Failed to resend OTP. Please try again."
	msgInvalidOTP         = "Invalid or expired OTP"
	msgEmailAndOTP        = "Email and OTP are required"
)

// errNoPendingSignup renders as 400.
var errNoPendingSignup = apperror.New(apperror.NotFound, "No pending verification found. Please sign up again.").
	WithStatus(http.StatusBadRequest)

// SignupRequest is a registration awaiting email verification.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendSignupOTP stages a registration and emails a code to its address.
// No account exists until VerifySignupOTP succeeds.
func (s *Service) SendSignupOTP(ctx context.Context, req SignupRequest) error {
	username := strings.TrimSpace(req.Username)
	addr := models.NormalizeEmail(req.Email)
	if username == "" || addr == "" || req.Password == "" {
		return apperror.New(apperror.InvalidInput, "All fields are required")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return apperror.New(apperror.InvalidInput, "Password must be at least 6 characters")
	}
	if err := validate.Var("email", addr, "email"); err != nil {
		return apperror.New(apperror.InvalidInput, validate.Message(err))
	}

	taken, err := exists(ctx, s.accounts.GetAccountByUsername, username)
	if err != nil {
		return apperror.Wrap(err, msgSignupSendFailed)
	}
	if taken {
		return apperror.New(apperror.Conflict, "Username already exists")
	}
	taken, err = exists(ctx, s.accounts.GetAccountByEmail, addr)
	if err != nil {
		return apperror.Wrap(err, msgSignupSendFailed)
	}
	if taken {
		return apperror.New(apperror.Conflict, "Email already exists")
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return apperror.Wrap(err, msgSignupSendFailed)
	}

	rec := &models.OTP{
		Email:   addr,
		Purpose: models.PurposeSignup,
		Payload: models.Payload{
			models.PayloadUsername:     username,
			models.PayloadPasswordHash: hash,
		},
	}
	if err := s.issue(ctx, rec); err != nil {
		return apperror.Wrap(err, msgSignupSendFailed)
	}

	msg, err := email.SignupOTP(ctx, addr, username, rec.Code)
	return s.send(ctx, msg, err, email.BestEffort)
}

// VerifySignupOTP redeems a signup code and creates the staged account.
func (s *Service) VerifySignupOTP(ctx context.Context, addr, code string) (*models.Account, error) {
	addr = models.NormalizeEmail(addr)
	code = strings.TrimSpace(code)
	if addr == "" || code == "" {
		return nil, apperror.New(apperror.InvalidInput, msgEmailAndOTP)
	}

	rec, err := s.redeem(ctx, addr, code, models.PurposeSignup, "")
	if err != nil {
		return nil, apperror.Wrap(err, msgSignupVerifyFailed)
	}
	if rec == nil {
		return nil, apperror.New(apperror.InvalidOrExpired, msgInvalidOTP)
	}

	acc := &models.Account{
		Username:     rec.Payload[models.PayloadUsername],
		Email:        rec.Email,
		PasswordHash: rec.Payload[models.PayloadPasswordHash],
	}
	if err := s.accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.Conflict, "Username or email already exists")
		}
		return nil, apperror.Wrap(err, msgSignupVerifyFailed)
	}
	s.consume(ctx, rec)

	msg, err := email.Welcome(ctx, acc.Email, acc.Username)
	_ = s.send(ctx, msg, err, email.BestEffort)
	return acc, nil
}

// ResendSignupOTP issues a fresh code for a pending registration. The
// staged registration and its expiry window are renewed together.
func (s *Service) ResendSignupOTP(ctx context.Context, addr string) error {
	addr = models.NormalizeEmail(addr)
	if addr == "" {
		return apperror.New(apperror.InvalidInput, "Email is required")
	}

	rec, err := s.store.FindLatest(ctx, addr, models.PurposeSignup)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errNoPendingSignup
		}
		return apperror.Wrap(err, msgResendFailed)
	}

	code, err := s.codes()
	if err != nil {
		return apperror.Wrap(err, msgResendFailed)
	}
	if err := s.store.Refresh(ctx, rec, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errNoPendingSignup
		}
		return apperror.Wrap(err, msgResendFailed)
	}
	metrics.OTPIssued(string(models.PurposeSignup))
	slog.InfoContext(ctx, "otp_reissued", "purpose", models.PurposeSignup, "email", addr,
		"expires_at", rec.ExpiresAt(s.store.TTL()))

	msg, err := email.SignupOTP(ctx, addr, rec.Payload[models.PayloadUsername], code)
	if err := s.send(ctx, msg, err, email.Critical); err != nil {
		return apperror.Wrap(err, msgResendFailed)
	}
	return nil
}
