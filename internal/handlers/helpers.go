// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/auth"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"github.com/labstack/echo/v4"
)

// messageResponse is the body of a successful request without data.
type messageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// accountResponse flattens the public account into the success envelope.
type accountResponse struct {
	models.PublicAccount
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

func success(c echo.Context, status int, message string) error {
	return c.JSON(status, messageResponse{Success: true, Message: message})
}

func successAccount(c echo.Context, status int, message string, acc *models.Account) error {
	return c.JSON(status, accountResponse{
		PublicAccount: acc.Public(),
		Message:       message,
		Success:       true,
	})
}

// bind decodes the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.New(apperror.InvalidInput, "Invalid request body").WithInternal(err)
	}
	return nil
}

// principalID returns the authenticated caller's account id.
func principalID(c echo.Context) (string, error) {
	p := auth.GetPrincipal(c.Request().Context())
	if p == nil {
		return "", apperror.New(apperror.Unauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return p.AccountID, nil
}
