// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Purpose tags which workflow an OTP belongs to.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposeEmailChange   Purpose = "email-change"
	PurposeProfileUpdate Purpose = "profile-update"
	// PurposePasswordReset is reserved; no workflow issues it yet.
	PurposePasswordReset Purpose = "password-reset"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeSignup, PurposeEmailChange, PurposeProfileUpdate, PurposePasswordReset:
		return true
	}
	return false
}

// Payload is data staged with an OTP and applied once the code is redeemed.
type Payload map[string]string

// Value implements driver.Valuer.
func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Payload) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("payload: unsupported column type")
	}
	if len(raw) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(raw, p)
}

// OTP is a one-time code bound to an email address and purpose.
type OTP struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Payload   Payload   `db:"payload" json:"payload,omitempty"`
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"code"`
	Purpose   Purpose   `db:"purpose" json:"purpose"`
}

// ExpiresAt returns the moment the code stops being redeemable.
func (o *OTP) ExpiresAt(ttl time.Duration) time.Time {
	return o.CreatedAt.Add(ttl)
}

// Expired reports whether the code is past its TTL at now.
func (o *OTP) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(o.ExpiresAt(ttl))
}
