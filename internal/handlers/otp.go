// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/services/otp"
	"github.com/labstack/echo/v4"
)

// OTPHandlers contains handlers for the code-gated account workflows.
type OTPHandlers struct {
	otp *otp.Service
}

// NewOTP creates a new OTPHandlers instance.
func NewOTP(svc *otp.Service) *OTPHandlers {
	return &OTPHandlers{otp: svc}
}

// Routes registers the workflow endpoints. requireAuth guards the
// endpoints that act on the caller's own account.
func (h *OTPHandlers) Routes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/send-signup-otp", h.SendSignupOTP)
	g.POST("/verify-signup-otp", h.VerifySignupOTP)
	g.POST("/resend-signup-otp", h.ResendSignupOTP)

	g.POST("/send-email-change-otp", h.SendEmailChangeOTP, requireAuth)
	g.POST("/verify-email-change-otp", h.VerifyEmailChangeOTP, requireAuth)
	g.POST("/verify-password", h.VerifyPassword, requireAuth)
	g.POST("/send-profile-update-otp", h.SendProfileUpdateOTP, requireAuth)
	g.POST("/verify-profile-update-otp", h.VerifyProfileUpdateOTP, requireAuth)
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendSignupOTP stages a registration and emails its code.
func (h *OTPHandlers) SendSignupOTP(c echo.Context) error {
	var req otp.SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.otp.SendSignupOTP(c.Request().Context(), req); err != nil {
		return err
	}
	return success(c, http.StatusOK, "OTP sent to your email. Please verify within 5 minutes.")
}

// VerifySignupOTP creates the account staged under the submitted code.
func (h *OTPHandlers) VerifySignupOTP(c echo.Context) error {
	var req verifyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.otp.VerifySignupOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Email verified successfully! You can now sign in.")
}

// ResendSignupOTP reissues the code for a pending registration.
func (h *OTPHandlers) ResendSignupOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.otp.ResendSignupOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return success(c, http.StatusOK, "New OTP sent to your email.")
}

type emailChangeRequest struct {
	NewEmail string `json:"newEmail"`
	OTP      string `json:"otp"`
}

// SendEmailChangeOTP emails a code to the caller's requested new address.
func (h *OTPHandlers) SendEmailChangeOTP(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	var req emailChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.otp.SendEmailChangeOTP(c.Request().Context(), accountID, req.NewEmail); err != nil {
		return err
	}
	return success(c, http.StatusOK, "OTP sent to your new email. Please verify within 5 minutes.")
}

// VerifyEmailChangeOTP moves the caller to the verified address.
func (h *OTPHandlers) VerifyEmailChangeOTP(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	var req emailChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	acc, err := h.otp.VerifyEmailChangeOTP(c.Request().Context(), accountID, req.NewEmail, req.OTP)
	if err != nil {
		return err
	}
	return successAccount(c, http.StatusOK, "Email updated successfully!", acc)
}

// VerifyPassword checks the caller's password without changing anything.
func (h *OTPHandlers) VerifyPassword(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.otp.VerifyPassword(c.Request().Context(), accountID, req.Password); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Password verified")
}

// SendProfileUpdateOTP stages profile changes behind a code.
func (h *OTPHandlers) SendProfileUpdateOTP(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	var req struct {
		CurrentEmail string                `json:"currentEmail"`
		Updates      models.ProfileUpdates `json:"updates"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.otp.SendProfileUpdateOTP(c.Request().Context(), accountID, req.CurrentEmail, req.Updates); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Verification code sent to your email.")
}

// VerifyProfileUpdateOTP applies the staged profile changes.
func (h *OTPHandlers) VerifyProfileUpdateOTP(c echo.Context) error {
	accountID, err := principalID(c)
	if err != nil {
		return err
	}
	var req struct {
		verifyRequest
		Updates models.ProfileUpdates `json:"updates"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	acc, err := h.otp.VerifyProfileUpdateOTP(c.Request().Context(), accountID, req.Email, req.OTP, req.Updates)
	if err != nil {
		return err
	}
	return successAccount(c, http.StatusOK, "Profile updated successfully!", acc)
}
