// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Customer is a client of the field-service business.
type Customer struct {
	RecordMeta
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Job is a unit of scheduled work for a customer.
type Job struct {
	RecordMeta
	CustomerID  string     `json:"customerId"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Estimate is a priced proposal made of lines.
type Estimate struct {
	RecordMeta
	CustomerID string         `json:"customerId"`
	JobID      string         `json:"jobId,omitempty"`
	Number     string         `json:"number"`
	Status     string         `json:"status"`
	Lines      []EstimateLine `json:"lines"`
}

// EstimateLine belongs to an [Estimate] through EstimateID.
type EstimateLine struct {
	RecordMeta
	EstimateID  string  `json:"estimateId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Invoice is a bill issued to a customer.
type Invoice struct {
	RecordMeta
	CustomerID string        `json:"customerId"`
	JobID      string        `json:"jobId,omitempty"`
	Number     string        `json:"number"`
	Status     string        `json:"status"`
	DueAt      *time.Time    `json:"dueAt,omitempty"`
	Lines      []InvoiceLine `json:"lines"`
}

// InvoiceLine belongs to an [Invoice] through InvoiceID.
type InvoiceLine struct {
	RecordMeta
	InvoiceID   string  `json:"invoiceId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// MaterialList collects the materials needed for a job.
type MaterialList struct {
	RecordMeta
	JobID string             `json:"jobId"`
	Name  string             `json:"name"`
	Items []MaterialListItem `json:"items"`
}

// MaterialListItem belongs to a [MaterialList] through MaterialListID.
type MaterialListItem struct {
	RecordMeta
	MaterialListID string  `json:"materialListId"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit,omitempty"`
}
