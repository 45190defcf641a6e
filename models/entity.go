// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// EntityType names one sync-capable entity collection. The set is closed:
// every value is declared below and listed in [SyncOrder].
type EntityType string

const (
	Customers         EntityType = "Customers"
	Jobs              EntityType = "Jobs"
	Estimates         EntityType = "Estimates"
	EstimateLines     EntityType = "EstimateLines"
	Invoices          EntityType = "Invoices"
	InvoiceLines      EntityType = "InvoiceLines"
	MaterialLists     EntityType = "MaterialLists"
	MaterialListItems EntityType = "MaterialListItems"
)

// SyncOrder is the fixed order in which top-level entity types are pulled.
// Child types travel inside their parents and are not listed.
var SyncOrder = []EntityType{
	Customers,
	Jobs,
	Estimates,
	Invoices,
	MaterialLists,
}

var resourcePaths = map[EntityType]string{
	Customers:     "customers",
	Jobs:          "jobs",
	Estimates:     "estimates",
	Invoices:      "invoices",
	MaterialLists: "material-lists",
}

type childSpec struct {
	childType EntityType
	field     string
	parentFK  string
}

var childSpecs = map[EntityType]childSpec{
	Estimates:     {childType: EstimateLines, field: "lines", parentFK: "estimateId"},
	Invoices:      {childType: InvoiceLines, field: "lines", parentFK: "invoiceId"},
	MaterialLists: {childType: MaterialListItems, field: "items", parentFK: "materialListId"},
}

// Children describes the child collection embedded in a parent record: the
// child entity type, the JSON field holding the array and the child's foreign
// key field. ok is false for entity types without children.
func (e EntityType) Children() (childType EntityType, field, parentFK string, ok bool) {
	spec, ok := childSpecs[e]
	return spec.childType, spec.field, spec.parentFK, ok
}

// Path returns the REST resource path of a top-level entity type, or an
// empty string for child types.
func (e EntityType) Path() string {
	return resourcePaths[e]
}

// IsTopLevel reports whether the entity type has its own REST resource.
func (e EntityType) IsTopLevel() bool {
	_, ok := resourcePaths[e]
	return ok
}

func (e EntityType) String() string {
	return string(e)
}

// EntityTypeFromPath resolves a REST resource path into its entity type.
func EntityTypeFromPath(path string) (EntityType, error) {
	for entity, p := range resourcePaths {
		if p == path {
			return entity, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", path)
}

// ParseEntityType resolves an entity type by its name, e.g. "Customers".
func ParseEntityType(name string) (EntityType, error) {
	for _, entity := range SyncOrder {
		if string(entity) == name {
			return entity, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", name)
}

// RecordMeta is the identity and versioning block every synced record carries.
type RecordMeta struct {
	// ID is the stable server-assigned identity.
	ID string `json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is stamped by the server on every accepted write and is the
	// value the conflict check compares against.
	UpdatedAt time.Time `json:"updatedAt"`

	// IsArchived is the soft-delete flag.
	IsArchived bool `json:"isArchived"`
}

// Meta returns the record's identity block.
func (m RecordMeta) Meta() RecordMeta {
	return m
}

// Entity is implemented by every record type that can be synced.
type Entity interface {
	Meta() RecordMeta
}
