// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LoginRequest is the body of auth/login and auth/register.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is returned by auth/login and auth/refresh.
type AuthResponse struct {
	Succeeded bool      `json:"succeeded"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx server answer except 409.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ConnectionReport is the human-readable outcome of a reachability probe.
type ConnectionReport struct {
	OK         bool          `json:"ok"`
	StatusCode int           `json:"statusCode,omitempty"`
	Latency    time.Duration `json:"latency"`
	Message    string        `json:"message"`
}
