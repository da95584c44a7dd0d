// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/metrics"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
	"codeberg.org/zblogs/zblogs-api/internal/validate"
)

const (
	msgProfileSendFailed   = "Failed to send verification code"
	msgProfileUpdateFailed = "Failed to update profile"
	msgInvalidCode         = "Invalid or expired verification code"
)

// VerifyPassword checks password against the account's stored hash.
func (s *Service) VerifyPassword(ctx context.Context, accountID, password string) error {
	if password == "" {
		return apperror.New(apperror.InvalidInput, "Password is required")
	}

	acc, err := s.accountByID(ctx, accountID)
	if err != nil {
		return fail(err, "Failed to verify password")
	}
	if !s.check(acc.PasswordHash, password) {
		slog.WarnContext(ctx, "password_check_failed", "account_id", acc.ID)
		return apperror.New(apperror.InvalidCredential, "Invalid password")
	}
	return nil
}

// SendProfileUpdateOTP stages updates and emails a code to the account's
// current address.
func (s *Service) SendProfileUpdateOTP(ctx context.Context, accountID, currentEmail string, updates models.ProfileUpdates) error {
	addr := models.NormalizeEmail(currentEmail)
	if addr == "" {
		return apperror.New(apperror.InvalidInput, "Current email is required")
	}
	updates = updates.Normalize()
	if err := validate.Struct(updates); err != nil {
		return apperror.New(apperror.InvalidInput, validate.Message(err))
	}

	acc, err := s.accountByID(ctx, accountID)
	if err != nil {
		return fail(err, msgProfileSendFailed)
	}
	if addr != acc.Email {
		return apperror.New(apperror.InvalidInput, "Email does not match")
	}

	if err := s.checkProfileConflicts(ctx, acc, updates); err != nil {
		return fail(err, msgProfileSendFailed)
	}

	payload := updates.Payload()
	payload[models.PayloadAccountID] = acc.ID
	rec := &models.OTP{
		Email:   addr,
		Purpose: models.PurposeProfileUpdate,
		Payload: payload,
	}
	if err := s.issue(ctx, rec); err != nil {
		return apperror.Wrap(err, msgProfileSendFailed)
	}

	msg, err := email.ProfileUpdateOTP(ctx, addr, acc.Username, rec.Code)
	return s.send(ctx, msg, err, email.BestEffort)
}

// VerifyProfileUpdateOTP redeems a profile-update code and applies the
// staged changes. Updates sent with the request are used only when the
// code carries none.
func (s *Service) VerifyProfileUpdateOTP(ctx context.Context, accountID, addr, code string, updates models.ProfileUpdates) (*models.Account, error) {
	addr = models.NormalizeEmail(addr)
	code = strings.TrimSpace(code)
	if addr == "" || code == "" {
		return nil, apperror.New(apperror.InvalidInput, msgEmailAndOTP)
	}

	rec, err := s.redeem(ctx, addr, code, models.PurposeProfileUpdate, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, msgProfileUpdateFailed)
	}
	if rec == nil {
		return nil, apperror.New(apperror.InvalidOrExpired, msgInvalidCode)
	}

	staged := models.ProfileUpdatesFromPayload(rec.Payload)
	if staged.Empty() {
		staged = updates.Normalize()
		if err := validate.Struct(staged); err != nil {
			return nil, apperror.New(apperror.InvalidInput, validate.Message(err))
		}
	}

	acc, err := s.accountByID(ctx, accountID)
	if err != nil {
		return nil, fail(err, msgProfileUpdateFailed)
	}
	if acc.Email != rec.Email {
		metrics.OTPVerified(string(rec.Purpose), false)
		return nil, apperror.New(apperror.InvalidOrExpired, msgInvalidCode)
	}

	staged.ApplyTo(acc)
	if err := s.accounts.UpdateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.Conflict, "Username or email already in use")
		}
		return nil, apperror.Wrap(err, msgProfileUpdateFailed)
	}
	s.consume(ctx, rec)

	slog.InfoContext(ctx, "profile_updated", "account_id", acc.ID, "verified", true)
	return acc, nil
}

// checkProfileConflicts rejects a username or email owned by another account.
func (s *Service) checkProfileConflicts(ctx context.Context, acc *models.Account, updates models.ProfileUpdates) error {
	if updates.Username != "" && updates.Username != acc.Username {
		taken, err := exists(ctx, s.accounts.GetAccountByUsername, updates.Username)
		if err != nil {
			return err
		}
		if taken {
			return apperror.New(apperror.Conflict, "Username already taken")
		}
	}
	if updates.Email != "" && updates.Email != acc.Email {
		taken, err := exists(ctx, s.accounts.GetAccountByEmail, updates.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperror.New(apperror.Conflict, "Email already in use")
		}
	}
	return nil
}
