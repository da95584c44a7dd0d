// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/models"

	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidPurpose is returned when an OTP carries an unknown purpose.
	ErrInvalidPurpose = errors.New("invalid otp purpose")
)

// Repository provides database operations for accounts.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// wrapError maps driver errors onto repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(ErrDuplicate, err)
		}
	}
	return err
}

func checkPurpose(p models.Purpose) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPurpose, p)
	}
	return nil
}

func utc(now func() time.Time) time.Time {
	return now().UTC()
}
