// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"text/template"

	"codeberg.org/zblogs/zblogs-api/internal/i18n"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlLayout = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/layout.html"))
	textLayout = template.Must(template.ParseFS(templateFS, "templates/layout.txt"))
)

// Message kinds.
const (
	KindSignupOTP        = "signup_otp"
	KindEmailChangeOTP   = "email_change_otp"
	KindProfileUpdateOTP = "profile_update_otp"
	KindWelcome          = "welcome"
)

type layoutData struct {
	AppName  string
	Heading  string
	Greeting string
	Body     string
	Code     string
	Expiry   string
	Ignore   string
}

// prefix selects the translation keys for each kind.
var prefix = map[string]string{
	KindSignupOTP:        "email_signup",
	KindEmailChangeOTP:   "email_change",
	KindProfileUpdateOTP: "email_profile_update",
	KindWelcome:          "email_welcome",
}

func render(ctx context.Context, kind, to, username, code string) (Message, error) {
	p := prefix[kind]
	data := layoutData{
		AppName:  i18n.T(ctx, "app_name"),
		Heading:  i18n.T(ctx, p+"_heading"),
		Greeting: i18n.TData(ctx, "email_greeting", map[string]any{"Username": username}),
		Body:     i18n.T(ctx, p+"_body"),
		Code:     code,
		Expiry:   i18n.T(ctx, "email_code_expiry"),
		Ignore:   i18n.T(ctx, "email_ignore"),
	}

	var html, text bytes.Buffer
	if err := htmlLayout.Execute(&html, data); err != nil {
		return Message{}, err
	}
	if err := textLayout.Execute(&text, data); err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: i18n.T(ctx, p+"_subject"),
		HTML:    html.String(),
		Text:    text.String(),
		Kind:    kind,
	}, nil
}

// SignupOTP renders the code email sent after registration.
func SignupOTP(ctx context.Context, to, username, code string) (Message, error) {
	return render(ctx, KindSignupOTP, to, username, code)
}

// EmailChangeOTP renders the code email sent to a new address.
func EmailChangeOTP(ctx context.Context, to, username, code string) (Message, error) {
	return render(ctx, KindEmailChangeOTP, to, username, code)
}

// ProfileUpdateOTP renders the code email confirming a profile change.
func ProfileUpdateOTP(ctx context.Context, to, username, code string) (Message, error) {
	return render(ctx, KindProfileUpdateOTP, to, username, code)
}

// Welcome renders the greeting sent once signup completes.
func Welcome(ctx context.Context, to, username string) (Message, error) {
	return render(ctx, KindWelcome, to, username, "")
}
