// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User is a technician or office account allowed to use the API.
type User struct {
	// UserID is the internal identifier; it becomes the token subject.
	UserID int64 `json:"-"`

	Login string `json:"login"`
	Name  string `json:"name"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
