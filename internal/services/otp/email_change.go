// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
	"codeberg.org/zblogs/zblogs-api/internal/validate"
)

const (
	msgEmailChangeSendFailed   = "Failed to send OTP. Please try again."
	msgEmailChangeVerifyFailed = "Failed to verify OTP. Please try again."
	msgEmailInUse              = "Email is already in use"
)

// SendEmailChangeOTP emails a code to newEmail. The address is only
// assigned to the account once the code is redeemed.
func (s *Service) SendEmailChangeOTP(ctx context.Context, accountID, newEmail string) error {
	addr := models.NormalizeEmail(newEmail)
	if addr == "" {
		return apperror.New(apperror.InvalidInput, "New email is required")
	}
	if err := validate.Var("email", addr, "email"); err != nil {
		return apperror.New(apperror.InvalidInput, validate.Message(err))
	}

	acc, err := s.accountByID(ctx, accountID)
	if err != nil {
		return fail(err, msgEmailChangeSendFailed)
	}
	if addr == acc.Email {
		return apperror.New(apperror.InvalidInput, "New email is same as current email")
	}

	taken, err := exists(ctx, s.accounts.GetAccountByEmail, addr)
	if err != nil {
		return apperror.Wrap(err, msgEmailChangeSendFailed)
	}
	if taken {
		return apperror.New(apperror.Conflict, msgEmailInUse)
	}

	rec := &models.OTP{
		Email:   addr,
		Purpose: models.PurposeEmailChange,
		Payload: models.Payload{models.PayloadAccountID: acc.ID},
	}
	if err := s.issue(ctx, rec); err != nil {
		return apperror.Wrap(err, msgEmailChangeSendFailed)
	}

	msg, err := email.EmailChangeOTP(ctx, addr, acc.Username, rec.Code)
	return s.send(ctx, msg, err, email.BestEffort)
}

// VerifyEmailChangeOTP redeems a code sent to newEmail and moves the
// account to that address.
func (s *Service) VerifyEmailChangeOTP(ctx context.Context, accountID, newEmail, code string) (*models.Account, error) {
	addr := models.NormalizeEmail(newEmail)
	code = strings.TrimSpace(code)
	if addr == "" || code == "" {
		return nil, apperror.New(apperror.InvalidInput, msgEmailAndOTP)
	}

	rec, err := s.redeem(ctx, addr, code, models.PurposeEmailChange, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, msgEmailChangeVerifyFailed)
	}
	if rec == nil {
		return nil, apperror.New(apperror.InvalidOrExpired, msgInvalidOTP)
	}

	acc, err := s.accountByID(ctx, accountID)
	if err != nil {
		return nil, fail(err, msgEmailChangeVerifyFailed)
	}

	previous := acc.Email
	acc.Email = rec.Email
	if err := s.accounts.UpdateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.Conflict, msgEmailInUse)
		}
		return nil, apperror.Wrap(err, msgEmailChangeVerifyFailed)
	}
	s.consume(ctx, rec)

	slog.InfoContext(ctx, "email_changed", "account_id", acc.ID, "from", previous, "to", acc.Email)
	return acc, nil
}
