// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OfflineQueueItem is a write that could not reach the server and waits for
// replay.
type OfflineQueueItem struct {
	ID          string    `json:"id"`
	QueuedAt    time.Time `json:"queuedAt"`
	HTTPMethod  string    `json:"httpMethod"`
	Endpoint    string    `json:"endpoint"`
	Payload     []byte    `json:"payload,omitempty"`
	Description string    `json:"description"`
	RetryCount  int       `json:"retryCount"`
}
