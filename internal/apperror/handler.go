// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the JSON body of every failed request.
type Response struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
}

// HTTPErrorHandler renders errors as {success:false, statusCode, message}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var status int
	var message string

	var httpErr *echo.HTTPError
	if !errors.As(err, new(*Error)) && errors.As(err, &httpErr) {
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	} else {
		appErr := From(err)
		status = appErr.StatusCode
		message = appErr.Message
		if appErr.Internal != nil {
			level := slog.LevelWarn
			if Is(appErr, Internal) {
				level = slog.LevelError
			}
			slog.Log(c.Request().Context(), level, "request_failed",
				"kind", appErr.Kind.String(),
				"message", appErr.Message,
				"error", appErr.Internal,
			)
		}
	}

	resp := Response{Success: false, StatusCode: status, Message: message}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, resp)
	}
	if writeErr != nil {
		slog.Error("error_response_failed", "error", writeErr)
	}
}
