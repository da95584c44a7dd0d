// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/session"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for signing in and out.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *auth.Service, sess *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		auth:     svc,
		sessions: sess,
	}
}

// SigninRequest is the request body for password sign-in.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin checks credentials and sets the session cookie.
func (h *AuthHandlers) Signin(c echo.Context) error {
	var req SigninRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	acc, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	cookie, err := h.sessions.Create(acc.ID, acc.IsAdmin)
	if err != nil {
		return apperror.Wrap(err, "Failed to sign in")
	}
	c.SetCookie(cookie)

	return successAccount(c, http.StatusOK, "", acc)
}

// Signout clears the session cookie.
func (h *AuthHandlers) Signout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return success(c, http.StatusOK, "User has been signed out")
}
