// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"codeberg.org/zblogs/zblogs-api/internal/ctxkeys"
)

// Principal identifies the caller of an authenticated request.
type Principal struct {
	AccountID string
	IsAdmin   bool
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxkeys.Principal{}, p)
}

// GetPrincipal returns the authenticated caller from the context, or nil if not authenticated.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(ctxkeys.Principal{}).(*Principal); ok {
		return p
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated caller.
func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}
