package model

import "time"

// Admin is an account allowed to manage projects through the admin area.
//
// There is no sign-up flow: the reference API seeds one admin from its
// configuration at startup. PasswordHash is a bcrypt hash and never leaves
// the server.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
