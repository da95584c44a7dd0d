// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers contains the service-level HTTP handlers.
type Handlers struct {
	db Pinger
}

// New creates a new Handlers instance.
func New(db Pinger) *Handlers {
	return &Handlers{db: db}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if h.db != nil {
		if err := h.db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Test confirms the API is reachable.
func (h *Handlers) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "API is working!",
	})
}
