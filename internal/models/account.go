// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// DefaultProfilePicture is assigned to accounts that never uploaded an avatar.
const DefaultProfilePicture = "https://cdn-icons-png.flaticon.com/512/149/149071.png"

// Account is a registered blog user.
type Account struct {
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	ProfilePicture string    `db:"profile_picture"`
	IsAdmin        bool      `db:"is_admin"`
}

// PublicAccount is the externally visible view of an Account.
// It has no field for the password hash.
type PublicAccount struct {
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	IsAdmin        bool      `json:"isAdmin"`
}

// Public projects the account onto its public view.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		ProfilePicture: a.ProfilePicture,
		IsAdmin:        a.IsAdmin,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
