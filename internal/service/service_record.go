package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/tidwall/gjson"
)

// metaFields are kept in columns and merged back into the payload on read.
var metaFields = []string{"id", "createdAt", "updatedAt", "isArchived"}

// recordService is the concrete implementation of RecordService.
type recordService struct {
	records   store.RecordRepository
	conflicts *ConflictDetector
	ids       *utils.UUIDGenerator

	// now is the server clock. Stamps are truncated to microseconds, the
	// precision of the database, so a client echoing a stamp back compares
	// equal to the stored one.
	now func() time.Time

	logger *logger.Logger
}

func NewRecordService(records store.RecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		records:   records,
		conflicts: NewConflictDetector(records, logger),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *recordService) List(ctx context.Context, entity models.EntityType, since *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
	if !entity.IsTopLevel() {
		return models.SyncEnvelope[json.RawMessage]{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	records, err := s.records.ListSince(ctx, entity, since)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "recordService.List").Str("entity", entity.String()).Msg("listing records failed")
		return models.SyncEnvelope[json.RawMessage]{}, fmt.Errorf("error listing %s: %w", entity, err)
	}

	data := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		body, err := renderRecord(record)
		if err != nil {
			return models.SyncEnvelope[json.RawMessage]{}, err
		}
		data = append(data, body)
	}

	return models.SyncEnvelope[json.RawMessage]{Data: data, TotalCount: len(data)}, nil
}

func (s *recordService) Create(ctx context.Context, write models.RecordWrite) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	fields, err := decodeObject(write.Payload)
	if err != nil {
		return nil, err
	}

	id := stringField(fields, "id")
	if id == "" {
		id = s.ids.Generate()
	}
	now := s.stamp()

	if err = s.stampChildren(write.EntityType, fields, id, now); err != nil {
		return nil, err
	}
	payload, err := storedPayload(fields)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.records.Create(ctx, models.Record{
		EntityType: write.EntityType,
		ID:         id,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsArchived: boolField(fields, "isArchived"),
	}, write.IdempotencyKey)
	if err != nil {
		log.Err(err).Str("func", "recordService.Create").Str("entity", write.EntityType.String()).Str("id", id).Msg("record creation failed")
		return nil, fmt.Errorf("error creating %s: %w", write.EntityType, err)
	}
	if !created {
		log.Info().
			Str("entity", write.EntityType.String()).
			Str("id", stored.ID).
			Str("idempotency_key", write.IdempotencyKey).
			Msg("repeated create answered with the original record")
	}

	return renderRecord(stored)
}

func (s *recordService) Update(ctx context.Context, write models.RecordWrite) (json.RawMessage, error) {
	fields, err := decodeObject(write.Payload)
	if err != nil {
		return nil, err
	}

	clientUpdatedAt, ok := timeField(fields, "updatedAt")
	if !ok {
		return nil, ErrMissingUpdatedAt
	}
	if id := stringField(fields, "id"); id != "" && id != write.ID {
		return nil, ErrRecordIDMismatch
	}

	now := s.stamp()
	if err = s.stampChildren(write.EntityType, fields, write.ID, now); err != nil {
		return nil, err
	}
	payload, err := storedPayload(fields)
	if err != nil {
		return nil, err
	}

	stored, err := s.conflicts.Apply(ctx, models.Record{
		EntityType: write.EntityType,
		ID:         write.ID,
		Payload:    payload,
		UpdatedAt:  now,
		IsArchived: boolField(fields, "isArchived"),
	}, clientUpdatedAt)
	if err != nil {
		return nil, err
	}

	return renderRecord(stored)
}

func (s *recordService) Archive(ctx context.Context, entity models.EntityType, id string) error {
	if err := s.records.Archive(ctx, entity, id, s.stamp()); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "recordService.Archive").Str("entity", entity.String()).Str("id", id).Msg("archiving failed")
		return fmt.Errorf("error archiving %s %s: %w", entity, id, err)
	}
	return nil
}

func (s *recordService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// stampChildren completes the embedded child collection of a parent: missing
// ids are assigned, the foreign key points at the parent and every child is
// stamped with the parent's write time.
func (s *recordService) stampChildren(entity models.EntityType, fields map[string]json.RawMessage, parentID string, now time.Time) error {
	_, field, fk, ok := entity.Children()
	if !ok {
		return nil
	}

	raw, present := fields[field]
	if !present || gjson.ParseBytes(raw).Type == gjson.Null {
		fields[field] = json.RawMessage("[]")
		return nil
	}

	var children []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		return fmt.Errorf("%w: %s must be an array of objects", ErrMalformedPayload, field)
	}

	stamp := mustMarshal(now)
	for _, child := range children {
		if stringField(child, "id") == "" {
			child["id"] = mustMarshal(s.ids.Generate())
		}
		child[fk] = mustMarshal(parentID)
		if _, ok := timeField(child, "createdAt"); !ok {
			child["createdAt"] = stamp
		}
		child["updatedAt"] = stamp
		if _, ok := child["isArchived"]; !ok {
			child["isArchived"] = json.RawMessage("false")
		}
	}

	encoded, err := json.Marshal(children)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", field, err)
	}
	fields[field] = encoded
	return nil
}

func decodeObject(payload []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrMalformedPayload)
	}
	return fields, nil
}

func storedPayload(fields map[string]json.RawMessage) (json.RawMessage, error) {
	body := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		body[k] = v
	}
	for _, k := range metaFields {
		delete(body, k)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return payload, nil
}

// renderRecord is the wire form of a stored record: its payload with the
// identity columns merged in.
func renderRecord(record models.Record) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(record.Payload) > 0 {
		if err := json.Unmarshal(record.Payload, &fields); err != nil {
			return nil, fmt.Errorf("stored %s %s has a corrupt payload: %w", record.EntityType, record.ID, err)
		}
	}

	fields["id"] = mustMarshal(record.ID)
	fields["createdAt"] = mustMarshal(record.CreatedAt.UTC())
	fields["updatedAt"] = mustMarshal(record.UpdatedAt.UTC())
	fields["isArchived"] = mustMarshal(record.IsArchived)

	return json.Marshal(fields)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	value := gjson.ParseBytes(raw)
	if value.Type != gjson.String {
		return ""
	}
	return value.String()
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && gjson.ParseBytes(raw).Bool()
}

func timeField(fields map[string]json.RawMessage, key string) (time.Time, bool) {
	s := stringField(fields, key)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// mustMarshal encodes values that cannot fail to encode: strings, bools and
// times.
func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
