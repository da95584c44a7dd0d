// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/session"
	"github.com/labstack/echo/v4"
)

// SessionParser reads the session carried by a request.
type SessionParser interface {
	Parse(r *http.Request) (*session.Data, error)
}

// LoadPrincipal creates middleware that puts the session's caller into the
// request context. Requests without a valid session pass through unchanged.
func LoadPrincipal(sessions SessionParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := sessions.Parse(c.Request())
			if err != nil {
				return err
			}
			if data != nil {
				ctx := auth.WithPrincipal(c.Request().Context(), &auth.Principal{
					AccountID: data.AccountID,
					IsAdmin:   data.IsAdmin,
				})
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an authenticated caller.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAuthenticated(c.Request().Context()) {
			return apperror.New(apperror.Unauthorized, "Unauthorized")
		}
		return next(c)
	}
}

// RequireAdmin ensures the caller is an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := auth.GetPrincipal(c.Request().Context())
		if p == nil {
			return apperror.New(apperror.Unauthorized, "Unauthorized")
		}
		if !p.IsAdmin {
			return apperror.New(apperror.Forbidden, "Forbidden")
		}
		return next(c)
	}
}
