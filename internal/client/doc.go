// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the sync client runtime: configuration, local stores,
// the HTTP transport, client services and the background scheduler.
package client
