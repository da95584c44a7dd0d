// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/models"
	"github.com/google/uuid"
	"github.com/vinovest/sqlx"
)

// DefaultOTPTTL is how long a one-time code stays redeemable.
const DefaultOTPTTL = 300 * time.Second

const otpColumns = `id, email, code, purpose, payload, created_at`

// OTPStore keeps one-time codes in SQLite. Expired rows are filtered on
// every read and removed physically by PurgeExpired.
type OTPStore struct {
	db  *sqlx.DB
	now func() time.Time
	ttl time.Duration
}

// OTPStoreOption customises an OTPStore.
type OTPStoreOption func(*OTPStore)

// WithOTPClock overrides the clock used for stamping and expiry checks.
func WithOTPClock(now func() time.Time) OTPStoreOption {
	return func(s *OTPStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOTPTTL overrides DefaultOTPTTL.
func WithOTPTTL(ttl time.Duration) OTPStoreOption {
	return func(s *OTPStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewOTPStore creates a SQLite backed OTP store.
func NewOTPStore(db *sqlx.DB, opts ...OTPStoreOption) *OTPStore {
	s := &OTPStore{db: db, now: time.Now, ttl: DefaultOTPTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured code lifetime.
func (s *OTPStore) TTL() time.Duration {
	return s.ttl
}

func (s *OTPStore) cutoff() time.Time {
	return utc(s.now).Add(-s.ttl)
}

// Put inserts rec, assigning an ID and stamping the creation time. Unknown
// purposes are rejected with ErrInvalidPurpose.
func (s *OTPStore) Put(ctx context.Context, rec *models.OTP) error {
	if err := checkPurpose(rec.Purpose); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = utc(s.now)

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO otps (`+otpColumns+`) VALUES (:id, :email, :code, :purpose, :payload, :created_at)`,
		rec)
	return wrapError(err)
}

// FindByCode returns the live record matching email, code and purpose.
func (s *OTPStore) FindByCode(ctx context.Context, email, code string, purpose models.Purpose) (*models.OTP, error) {
	var rec models.OTP
	err := s.db.GetContext(ctx, &rec,
		`SELECT `+otpColumns+` FROM otps
		 WHERE email = ? AND code = ? AND purpose = ? AND created_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		email, code, purpose, s.cutoff())
	if err != nil {
		return nil, wrapError(err)
	}
	return &rec, nil
}

// FindLatest returns the newest live record for email and purpose.
func (s *OTPStore) FindLatest(ctx context.Context, email string, purpose models.Purpose) (*models.OTP, error) {
	var rec models.OTP
	err := s.db.GetContext(ctx, &rec,
		`SELECT `+otpColumns+` FROM otps
		 WHERE email = ? AND purpose = ? AND created_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		email, purpose, s.cutoff())
	if err != nil {
		return nil, wrapError(err)
	}
	return &rec, nil
}

// Refresh replaces the code of rec and restarts its TTL window.
func (s *OTPStore) Refresh(ctx context.Context, rec *models.OTP, code string) error {
	now := utc(s.now)
	res, err := s.db.ExecContext(ctx,
		`UPDATE otps SET code = ?, created_at = ? WHERE id = ?`,
		code, now, rec.ID)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	rec.Code = code
	rec.CreatedAt = now
	return nil
}

// DeleteAll removes every record for email and purpose.
func (s *OTPStore) DeleteAll(ctx context.Context, email string, purpose models.Purpose) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE email = ? AND purpose = ?`, email, purpose)
	return wrapError(err)
}

// DeleteByID removes a single record. Deleting a missing record is not an error.
func (s *OTPStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE id = ?`, id)
	return wrapError(err)
}

// PurgeExpired physically deletes records past their TTL and reports how many were removed.
func (s *OTPStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE created_at <= ?`, s.cutoff())
	if err != nil {
		return 0, wrapError(err)
	}
	return res.RowsAffected()
}
