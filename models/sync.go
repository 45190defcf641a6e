// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncEnvelope is the wire shape of a delta response.
type SyncEnvelope[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}

// ConflictDescriptor explains why an update was rejected as stale.
// It is a response payload only and is never persisted.
type ConflictDescriptor struct {
	EntityID        string     `json:"entityId"`
	EntityType      EntityType `json:"entityType"`
	Message         string     `json:"message"`
	ServerUpdatedAt time.Time  `json:"serverUpdatedAt"`
	ClientUpdatedAt time.Time  `json:"clientUpdatedAt"`
}

// SyncRunResult is the outcome of one orchestrator run.
type SyncRunResult struct {
	Succeeded      bool      `json:"succeeded"`
	EntitiesSynced int       `json:"entitiesSynced"`
	Errors         int       `json:"errors"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// SyncStep identifies the stage a [SyncProgress] event reports on.
type SyncStep string

const (
	SyncStepQueue    SyncStep = "queue"
	SyncStepEntity   SyncStep = "entity"
	SyncStepComplete SyncStep = "complete"
)

// SyncProgress is emitted by the orchestrator after every step of a run.
type SyncProgress struct {
	Step    SyncStep   `json:"step"`
	Entity  EntityType `json:"entity,omitempty"`
	Index   int        `json:"index"`
	Total   int        `json:"total"`
	Synced  int        `json:"synced"`
	Errors  int        `json:"errors"`
	Message string     `json:"message,omitempty"`
}

// Record is the server-side storage form of any entity: identity columns
// plus the full JSON body.
type Record struct {
	EntityType EntityType      `json:"-"`
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	IsArchived bool            `json:"isArchived"`
}

// LocalRecord is the client-side storage form of a pulled record. Children
// are replaced as a set whenever the parent is written.
type LocalRecord struct {
	EntityType EntityType      `json:"entityType"`
	ID         string          `json:"id"`
	ParentID   string          `json:"parentId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	IsArchived bool            `json:"isArchived"`

	// ChildType is set for parents whose children are replaced on write.
	ChildType EntityType    `json:"childType,omitempty"`
	Children  []LocalRecord `json:"children,omitempty"`
}
