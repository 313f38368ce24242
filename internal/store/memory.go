package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/models"

	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory. It backs the
// development profile and API tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[models.Resource]map[string]memoryEntry
	seq     uint64
	now     func() time.Time
	newID   func() string
}

type memoryEntry struct {
	rec Record
	seq uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[models.Resource]map[string]memoryEntry),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

func (m *MemoryRepository) List(_ context.Context, resource models.Resource) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]memoryEntry, 0, len(m.records[resource]))
	for _, e := range m.records[resource] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = cloneRecord(e.rec)
	}
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, resource models.Resource, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.records[resource][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(resource), id)
	}
	out := cloneRecord(e.rec)
	return &out, nil
}

func (m *MemoryRepository) Create(ctx context.Context, resource models.Resource, data map[string]interface{}) (*Record, error) {
	recs, err := m.CreateMany(ctx, resource, []map[string]interface{}{data})
	if err != nil {
		return nil, err
	}
	return &recs[0], nil
}

func (m *MemoryRepository) CreateMany(_ context.Context, resource models.Resource, docs []map[string]interface{}) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.records[resource]
	if !ok {
		bucket = make(map[string]memoryEntry)
		m.records[resource] = bucket
	}

	now := m.now()
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec := Record{
			ID:        m.newID(),
			Resource:  resource,
			Data:      deepCopy(stripReserved(doc)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.seq++
		bucket[rec.ID] = memoryEntry{rec: rec, seq: m.seq}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (m *MemoryRepository) Patch(_ context.Context, resource models.Resource, id string, data map[string]interface{}) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.records[resource][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(resource), id)
	}
	e.rec.Data = deepCopy(merge(e.rec.Data, data))
	e.rec.UpdatedAt = m.now()
	m.records[resource][id] = e

	out := cloneRecord(e.rec)
	return &out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, resource models.Resource, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[resource][id]; !ok {
		return apperrors.NewNotFoundError(string(resource), id)
	}
	delete(m.records[resource], id)
	return nil
}

func cloneRecord(rec Record) Record {
	rec.Data = deepCopy(rec.Data)
	return rec
}

// deepCopy clones JSON-shaped values so callers never share nested maps
// or slices with stored records.
func deepCopy(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopy(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
