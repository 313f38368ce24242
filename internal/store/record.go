// Package store persists back-office records as schemaless JSON documents
// grouped by resource.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tour-backoffice/internal/models"
)

// Reserved keys live on Record itself and are stripped from Data.
const (
	keyID        = "id"
	keyCreatedAt = "createdAt"
	keyUpdatedAt = "updatedAt"
)

// Record is one stored document. It marshals flat: id and timestamps sit
// beside the data fields.
type Record struct {
	ID        string
	Resource  models.Resource
	Data      map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Data)+3)
	for k, v := range r.Data {
		flat[k] = v
	}
	flat[keyID] = r.ID
	flat[keyCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	flat[keyUpdatedAt] = r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(flat)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var flat map[string]interface{}
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	if id, ok := flat[keyID].(string); ok {
		r.ID = id
	}
	if ts, ok := flat[keyCreatedAt].(string); ok {
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	if ts, ok := flat[keyUpdatedAt].(string); ok {
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	r.Data = stripReserved(flat)
	return nil
}

// Decode copies the flattened record into v, typically a models or
// documents struct.
func (r Record) Decode(v interface{}) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.Resource, r.ID, err)
	}
	return nil
}

// ToData turns any JSON-marshalable value into record data.
func ToData(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return stripReserved(data), nil
}

func stripReserved(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch k {
		case keyID, keyCreatedAt, keyUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

// merge applies patch over base one level deep.
func merge(base, patch map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range stripReserved(patch) {
		out[k] = v
	}
	return out
}

// Repository is the persistence contract used by the API and generators.
type Repository interface {
	List(ctx context.Context, resource models.Resource) ([]Record, error)
	Get(ctx context.Context, resource models.Resource, id string) (*Record, error)
	Create(ctx context.Context, resource models.Resource, data map[string]interface{}) (*Record, error)
	// CreateMany stores all documents or none.
	CreateMany(ctx context.Context, resource models.Resource, docs []map[string]interface{}) ([]Record, error)
	// Patch shallow-merges data into the stored document.
	Patch(ctx context.Context, resource models.Resource, id string, data map[string]interface{}) (*Record, error)
	Delete(ctx context.Context, resource models.Resource, id string) error
}
