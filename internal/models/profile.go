// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "strings"

// Payload keys used by staged profile changes.
const (
	PayloadAccountID      = "accountId"
	PayloadUsername       = "username"
	PayloadEmail          = "email"
	PayloadProfilePicture = "profilePicture"
	PayloadPasswordHash   = "password"
)

// ProfileUpdates is a partial set of account fields. Empty fields are
// left untouched when applied.
type ProfileUpdates struct {
	Username       string `json:"username,omitempty" validate:"omitempty,min=3,max=20,nospace,lowercase,alphanum"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	ProfilePicture string `json:"profilePicture,omitempty" validate:"omitempty,url"`
}

// Normalize trims all fields and lowercases the email.
func (u ProfileUpdates) Normalize() ProfileUpdates {
	return ProfileUpdates{
		Username:       strings.TrimSpace(u.Username),
		Email:          NormalizeEmail(u.Email),
		ProfilePicture: strings.TrimSpace(u.ProfilePicture),
	}
}

// Empty reports whether no field is set.
func (u ProfileUpdates) Empty() bool {
	return u.Username == "" && u.Email == "" && u.ProfilePicture == ""
}

// Payload encodes the non-empty fields for staging with an OTP.
func (u ProfileUpdates) Payload() Payload {
	p := Payload{}
	if u.Username != "" {
		p[PayloadUsername] = u.Username
	}
	if u.Email != "" {
		p[PayloadEmail] = u.Email
	}
	if u.ProfilePicture != "" {
		p[PayloadProfilePicture] = u.ProfilePicture
	}
	return p
}

// ProfileUpdatesFromPayload decodes updates staged by Payload. Unknown
// keys are ignored.
func ProfileUpdatesFromPayload(p Payload) ProfileUpdates {
	return ProfileUpdates{
		Username:       p[PayloadUsername],
		Email:          p[PayloadEmail],
		ProfilePicture: p[PayloadProfilePicture],
	}
}

// ApplyTo copies the non-empty fields onto acc.
func (u ProfileUpdates) ApplyTo(acc *Account) {
	if u.Username != "" {
		acc.Username = u.Username
	}
	if u.Email != "" {
		acc.Email = u.Email
	}
	if u.ProfilePicture != "" {
		acc.ProfilePicture = u.ProfilePicture
	}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
