// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/config"
)

const (
	defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"
	defaultFromName      = "Z Blogs"
)

// BrevoMailer sends transactional email through the Brevo HTTP API.
type BrevoMailer struct {
	client *http.Client
	cfg    config.BrevoConfig
}

// NewBrevoMailer creates a Brevo mailer. Missing credentials are reported
// by Send so the service can start without them.
func NewBrevoMailer(cfg config.BrevoConfig, client *http.Client) *BrevoMailer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultBrevoEndpoint
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &BrevoMailer{client: client, cfg: cfg}
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
	To          []brevoAddress `json:"to"`
}

type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send posts msg to Brevo.
func (m *BrevoMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.APIKey == "" {
		return fmt.Errorf("%w: BREVO_API_KEY is not configured", ErrNotConfigured)
	}
	if m.cfg.FromAddress == "" {
		return fmt.Errorf("%w: BREVO_FROM_EMAIL is not configured", ErrNotConfigured)
	}

	body, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Name: m.cfg.FromName, Email: m.cfg.FromAddress},
		To:          []brevoAddress{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("encoding brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building brevo request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.cfg.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var apiErr brevoError
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
		return fmt.Errorf("brevo: %s", apiErr.Message)
	}
	return fmt.Errorf("brevo: failed to send email (status: %d)", resp.StatusCode)
}
