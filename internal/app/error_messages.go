// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the human-readable messages the sync server writes into
// auth responses, so that handler and client wording stays the same.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgInvalidDataProvided is returned when credentials fail validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned for an unknown login and for a
	// wrong password alike.
	MsgInvalidLoginPassword = "invalid login/password"

	MsgLoginAlreadyExists = "login already exists"

	// MsgTokenCannotBeRefreshed is returned by auth/refresh when the token is
	// forged or expired for longer than the refresh window.
	MsgTokenCannotBeRefreshed = "token cannot be refreshed"
)
