// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/zblogs/zblogs-api/internal/models"
	"github.com/google/uuid"
)

const accountColumns = `id, username, email, password_hash, profile_picture, is_admin, created_at, updated_at`

// CreateAccount inserts a new account. ID, timestamps and the default
// profile picture are filled in when empty.
func (r *Repository) CreateAccount(ctx context.Context, acc *models.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	if acc.ProfilePicture == "" {
		acc.ProfilePicture = models.DefaultProfilePicture
	}
	now := utc(r.now)
	acc.CreatedAt = now
	acc.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES (:id, :username, :email, :password_hash, :profile_picture, :is_admin, :created_at, :updated_at)`,
		acc)
	return wrapError(err)
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

// GetAccountByEmail retrieves an account by email address.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

// GetAccountByUsername retrieves an account by username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
}

func (r *Repository) getAccount(ctx context.Context, query string, arg any) (*models.Account, error) {
	var acc models.Account
	if err := r.db.GetContext(ctx, &acc, query, arg); err != nil {
		return nil, wrapError(err)
	}
	return &acc, nil
}

// UpdateAccount persists the mutable fields of acc.
func (r *Repository) UpdateAccount(ctx context.Context, acc *models.Account) error {
	acc.UpdatedAt = utc(r.now)

	res, err := r.db.NamedExecContext(ctx,
		`UPDATE accounts SET username = :username, email = :email, password_hash = :password_hash,
		 profile_picture = :profile_picture, is_admin = :is_admin, updated_at = :updated_at
		 WHERE id = :id`,
		acc)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAccountAdmin grants or revokes admin rights.
func (r *Repository) SetAccountAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_admin = ?, updated_at = ? WHERE id = ?`,
		isAdmin, utc(r.now), id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAccounts returns the total number of accounts.
func (r *Repository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM accounts`); err != nil {
		return 0, err
	}
	return count, nil
}
