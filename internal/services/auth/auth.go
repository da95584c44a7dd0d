// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth handles password credentials, sign-in and direct profile edits.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored hashes.
const PasswordCost = 10

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), PasswordCost)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AccountStore is the account persistence used by Service.
type AccountStore interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdateAccount(ctx context.Context, acc *models.Account) error
	SetAccountAdmin(ctx context.Context, id string, isAdmin bool) error
}

type Service struct {
	accounts AccountStore
}

func NewService(accounts AccountStore) *Service {
	return &Service{accounts: accounts}
}

// Login authenticates an account by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.New(apperror.InvalidInput, "All fields are required")
	}

	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.WarnContext(ctx, "login_failed", "email", email, "reason", "user_not_found")
			return nil, apperror.New(apperror.NotFound, "User not found")
		}
		return nil, apperror.Wrap(err, "Failed to sign in")
	}

	if !CheckPassword(acc.PasswordHash, password) {
		slog.WarnContext(ctx, "login_failed", "email", email, "reason", "invalid_password")
		return nil, apperror.New(apperror.InvalidCredential, "Invalid password")
	}

	slog.InfoContext(ctx, "login_success", "account_id", acc.ID)
	return acc, nil
}

// ProfileChange is a request to edit an account without a verification code.
type ProfileChange struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	ProfilePicture  string `json:"profilePicture"`
	CurrentPassword string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfile applies change to the account immediately. Email changes
// are refused here; they must go through the verified flow.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, change ProfileChange) (*models.Account, error) {
	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.NotFound, "User not found")
		}
		return nil, apperror.Wrap(err, "Failed to update profile")
	}

	if email := models.NormalizeEmail(change.Email); email != "" && email != acc.Email {
		return nil, apperror.New(apperror.InvalidInput, "Email changes require verification")
	}

	if change.NewPassword != "" {
		if change.CurrentPassword == "" {
			return nil, apperror.New(apperror.InvalidInput, "Please provide your current password")
		}
		if !CheckPassword(acc.PasswordHash, change.CurrentPassword) {
			return nil, apperror.New(apperror.InvalidCredential, "Current password is incorrect")
		}
		if len(change.NewPassword) < MinPasswordLength {
			return nil, apperror.New(apperror.InvalidInput, "New password must be at least 6 characters")
		}
		hash, err := HashPassword(change.NewPassword)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to update profile")
		}
		acc.PasswordHash = hash
	}

	updates := models.ProfileUpdates{
		Username:       change.Username,
		ProfilePicture: strings.TrimSpace(change.ProfilePicture),
	}
	if err := validate.Struct(updates); err != nil {
		return nil, apperror.New(apperror.InvalidInput, validate.Message(err))
	}

	if updates.Username != "" && updates.Username != acc.Username {
		taken, err := s.usernameTaken(ctx, updates.Username)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to update profile")
		}
		if taken {
			return nil, apperror.New(apperror.Conflict, "Username is already taken")
		}
	}

	updates.ApplyTo(acc)
	if err := s.accounts.UpdateAccount(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.Conflict, "Username is already taken")
		}
		return nil, apperror.Wrap(err, "Failed to update profile")
	}

	slog.InfoContext(ctx, "profile_updated", "account_id", acc.ID, "password_changed", change.NewPassword != "")
	return acc, nil
}

func (s *Service) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.accounts.GetAccountByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// EnsureAdmin grants admin rights to the account registered under email.
// A missing account is not an error; it is promoted on a later start.
func (s *Service) EnsureAdmin(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.WarnContext(ctx, "admin_not_registered", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get admin account: %w", err)
	}
	if acc.IsAdmin {
		return nil
	}

	if err := s.accounts.SetAccountAdmin(ctx, acc.ID, true); err != nil {
		return fmt.Errorf("failed to set admin: %w", err)
	}
	slog.InfoContext(ctx, "admin_promoted", "account_id", acc.ID)
	return nil
}
