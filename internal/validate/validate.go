// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package validate wraps go-playground/validator with the rules and
// client-facing messages used by the account endpoints.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// FieldError is a single validation failure with a client-facing message.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Errors collects validation failures in declaration order.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Message
}

// messages maps field.tag to the text shown to clients.
var messages = map[string]string{
	"username.min":       "Username must be between 3 and 20 characters",
	"username.max":       "Username must be between 3 and 20 characters",
	"username.nospace":   "Username cannot contain spaces",
	"username.lowercase": "Username must be lowercase",
	"username.alphanum":  "Username can only contain letters and numbers",
	"email.email":        "Invalid email address",
	"newEmail.email":     "Invalid email address",
	"profilePicture.url": "Profile picture must be a valid URL",
	"password.min":       "Password must be at least 6 characters",
	"newPassword.min":    "New password must be at least 6 characters",
}

// Struct validates s and returns Errors on failure.
func Struct(s any) error {
	return convert(get().Struct(s))
}

// Var validates a single value against tag. field names the value in
// the resulting message lookup.
func Var(field string, value any, tag string) error {
	err := get().Var(value, tag)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, newFieldError(field, fe.Tag(), fe.Param()))
	}
	return out
}

// Message returns the first client-facing message carried by err.
func Message(err error) string {
	var ve Errors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Message
	}
	return "Invalid input"
}

func convert(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, newFieldError(fe.Field(), fe.Tag(), fe.Param()))
	}
	return out
}

func newFieldError(field, tag, param string) FieldError {
	msg, ok := messages[field+"."+tag]
	if !ok {
		msg = "Invalid value for " + field
	}
	return FieldError{Field: field, Tag: tag, Param: param, Message: msg}
}

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = instance.RegisterValidation("nospace", noSpace)
	})
	return instance
}

func noSpace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}
