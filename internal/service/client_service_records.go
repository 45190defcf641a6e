package service

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-field-sync/models"
	"github.com/tidwall/gjson"
)

// localRecordFromJSON converts one server record into its local storage form.
// For parent types the embedded child array becomes the replacement child set.
func localRecordFromJSON(entity models.EntityType, body []byte) (models.LocalRecord, error) {
	if !gjson.ValidBytes(body) {
		return models.LocalRecord{}, fmt.Errorf("%w: invalid JSON for %s", ErrMalformedPayload, entity)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return models.LocalRecord{}, fmt.Errorf("%w: %s record is not an object", ErrMalformedPayload, entity)
	}

	record := models.LocalRecord{
		EntityType: entity,
		ID:         doc.Get("id").String(),
		CreatedAt:  doc.Get("createdAt").Time().UTC(),
		UpdatedAt:  doc.Get("updatedAt").Time().UTC(),
		IsArchived: doc.Get("isArchived").Bool(),
	}
	if record.ID == "" {
		return models.LocalRecord{}, fmt.Errorf("%w: %s record without id", ErrMalformedPayload, entity)
	}

	childType, field, _, ok := entity.Children()
	if !ok {
		record.Payload = json.RawMessage(body)
		return record, nil
	}

	payload, err := withoutField(body, field)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("%w: %s record: %w", ErrMalformedPayload, entity, err)
	}
	record.Payload = payload
	record.ChildType = childType
	for _, raw := range doc.Get(field).Array() {
		child, err := localRecordFromJSON(childType, []byte(raw.Raw))
		if err != nil {
			return models.LocalRecord{}, err
		}
		child.ParentID = record.ID
		record.Children = append(record.Children, child)
	}

	return record, nil
}

// localRecordOf converts a typed entity into its local storage form.
func localRecordOf[T models.Entity](entity models.EntityType, item T) (models.LocalRecord, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("error encoding %s record: %w", entity, err)
	}

	meta := item.Meta()
	if meta.ID == "" {
		return models.LocalRecord{}, fmt.Errorf("%w: %s record without id", ErrMalformedPayload, entity)
	}

	return models.LocalRecord{
		EntityType: entity,
		ID:         meta.ID,
		Payload:    payload,
		CreatedAt:  meta.CreatedAt.UTC(),
		UpdatedAt:  meta.UpdatedAt.UTC(),
		IsArchived: meta.IsArchived,
	}, nil
}

// withoutField returns the JSON object body with field removed. Children are
// stored as their own rows, so the parent payload does not repeat them.
func withoutField(body []byte, field string) (json.RawMessage, error) {
	if !gjson.GetBytes(body, field).Exists() {
		return json.RawMessage(body), nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, err
	}
	delete(object, field)
	return json.Marshal(object)
}
