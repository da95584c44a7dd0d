// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// UserHandlers contains handlers for editing accounts directly.
type UserHandlers struct {
	auth *auth.Service
}

// NewUser creates a new UserHandlers instance.
func NewUser(svc *auth.Service) *UserHandlers {
	return &UserHandlers{auth: svc}
}

// Update applies profile changes that need no verification code. Callers
// may only edit their own account.
func (h *UserHandlers) Update(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	if c.Param("userId") != accountID {
		return apperror.New(apperror.Forbidden, "You are not allowed to update this user")
	}

	var change auth.ProfileChange
	if err := bind(c, &change); err != nil {
		return err
	}

	acc, err := h.auth.UpdateProfile(c.Request().Context(), accountID, change)
	if err != nil {
		return err
	}
	return successAccount(c, http.StatusOK, "Profile updated successfully", acc)
}
