// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client transport layer: authenticated JSON requests
// against the sync API with credential refresh, transient-failure retry and a
// reachability probe.
//
// Failures are reported with the sentinel values in errors.go so callers can
// branch with [errors.Is] and [errors.As]: a rejected stale write is a
// *[ConflictError], an exhausted retry budget is a *[TransientError].
package adapter

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-field-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport issues requests against the sync API. Paths are relative to the
// configured base URL, e.g. "customers" or "jobs/42".
type Transport interface {
	// Get decodes the response body into result.
	Get(ctx context.Context, path string, query url.Values, result any) error

	// Post sends body as JSON and decodes the response into result (may be nil).
	Post(ctx context.Context, path string, body, result any) error

	// PostUnauthenticated is Post without the bearer credential and without
	// refresh on 401.
	PostUnauthenticated(ctx context.Context, path string, body, result any) error

	// Put returns a *ConflictError when the server rejects the write as stale.
	Put(ctx context.Context, path string, body, result any) error

	Delete(ctx context.Context, path string) error

	// Send issues a request from an already encoded payload, as recorded by
	// the offline queue. idempotencyKey is sent as the Idempotency-Key header
	// when non-empty; result may be nil.
	Send(ctx context.Context, method, path string, payload []byte, idempotencyKey string, result any) error

	// Login exchanges credentials for a session held by the transport.
	Login(ctx context.Context, login, password string) error
	Logout()
	IsAuthenticated() bool

	// TestConnection probes the health endpoint and describes the outcome.
	TestConnection(ctx context.Context) models.ConnectionReport
}
