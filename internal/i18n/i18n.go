// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package i18n localizes the texts of outgoing emails. Translations are
// embedded and loaded on first use.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

var translationFiles = []string{
	"translations/active.en.toml",
	"translations/active.de.toml",
}

// Supported lists the locales with translations, default first.
var Supported = []language.Tag{language.English, language.German}

var (
	loadOnce sync.Once
	bundle   *i18n.Bundle
	loadErr  error
)

type localeContextKey struct{}

func loadBundle() (*i18n.Bundle, error) {
	b := i18n.NewBundle(Supported[0])
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range translationFiles {
		if _, err := b.LoadMessageFileFS(translationFS, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return b, nil
}

// current returns the shared bundle, loading it on first call. A bundle
// that failed to load stays nil and lookups fall back to message IDs.
func current() *i18n.Bundle {
	loadOnce.Do(func() {
		bundle, loadErr = loadBundle()
		if loadErr != nil {
			slog.Error("i18n_load_failed", "error", loadErr)
		}
	})
	return bundle
}

// Init loads the embedded translations and reports whether they parsed.
// Calling it is optional; lookups load the bundle themselves.
func Init() error {
	current()
	return loadErr
}

// WithLocale stores the request locale in ctx.
func WithLocale(ctx context.Context, lang language.Tag) context.Context {
	return context.WithValue(ctx, localeContextKey{}, lang.String())
}

// GetLocale returns the locale stored by WithLocale, or "en".
func GetLocale(ctx context.Context) string {
	if locale, ok := ctx.Value(localeContextKey{}).(string); ok {
		return locale
	}
	return Supported[0].String()
}

// T translates messageID for the locale in ctx.
func T(ctx context.Context, messageID string) string {
	return TData(ctx, messageID, nil)
}

// TData translates messageID, filling its template with data. Unknown
// messages come back as their ID.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	b := current()
	if b == nil {
		return messageID
	}
	msg, err := i18n.NewLocalizer(b, GetLocale(ctx)).Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// MatchLanguage picks the best supported locale for an Accept-Language header.
func MatchLanguage(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(language.NewMatcher(Supported), acceptLanguage)
	return tag
}
