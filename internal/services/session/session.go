// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session issues and verifies the signed access_token cookie.
package session

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/config"
	"github.com/gorilla/securecookie"
)

// Data is the payload carried in the session cookie.
type Data struct {
	ExpiresAt time.Time `json:"exp"`
	AccountID string    `json:"id"`
	IsAdmin   bool      `json:"isAdmin"`
}

// Manager creates and parses session cookies.
type Manager struct {
	codec  *securecookie.SecureCookie
	name   string
	maxAge int
	secure bool
}

// NewManager creates a session manager. An empty hash key is replaced by a
// random one, which invalidates sessions on restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey, "hash")
	if err != nil {
		return nil, err
	}
	if hashKey == nil {
		slog.Warn("session_hash_key_generated", "hint", "set SESSION_HASH_KEY to keep sessions across restarts")
		hashKey = securecookie.GenerateRandomKey(32)
	}

	blockKey, err := decodeKey(cfg.BlockKey, "block")
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		codec:  codec,
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: secure,
	}, nil
}

func decodeKey(value, kind string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid session %s key: %w", kind, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid session %s key: must be 32 bytes, got %d", kind, len(key))
	}
	return key, nil
}

// Name returns the cookie name.
func (m *Manager) Name() string {
	return m.name
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Cross-site SPA clients only send the cookie with SameSite=None.
	if m.secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Create returns a signed cookie for the account.
func (m *Manager) Create(accountID string, isAdmin bool) (*http.Cookie, error) {
	data := Data{
		AccountID: accountID,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(time.Duration(m.maxAge) * time.Second),
	}

	encoded, err := m.codec.Encode(m.name, data)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return m.cookie(encoded, m.maxAge), nil
}

// Parse returns the session carried by r, or nil if the cookie is missing
// or no longer valid.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		return nil, nil //nolint:nilerr // no cookie means no session
	}

	var data Data
	if err := m.codec.Decode(m.name, c.Value, &data); err != nil {
		return nil, nil //nolint:nilerr // invalid cookies are treated as absent
	}
	if data.AccountID == "" || time.Now().After(data.ExpiresAt) {
		return nil, nil
	}
	return &data, nil
}

// Clear returns a cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}
