package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and by the tracker test
// harness. Now is injectable so tests can pin the server clock.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Fields
	Now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Fields),
		Now:         time.Now,
	}
}

func (m *Memory) Create(ctx context.Context, collection string, data Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]Fields)
		m.collections[collection] = docs
	}
	id := uuid.NewString()
	docs[id] = resolveTimestamps(data, m.Now)
	return id, nil
}

func (m *Memory) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Doc
	for id, data := range m.collections[collection] {
		if !matches(data, q.Filters) {
			continue
		}
		out = append(out, Doc{ID: id, Fields: cloneFields(data)})
	}

	if q.OrderBy != "" {
		sort.Slice(out, func(i, j int) bool {
			a := fmt.Sprint(out[i].Fields[q.OrderBy])
			b := fmt.Sprint(out[j].Fields[q.OrderBy])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, partial Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	data, ok := docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range resolveTimestamps(partial, m.Now) {
		data[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	if _, ok := docs[id]; !ok {
		return ErrNotFound
	}
	delete(docs, id)
	return nil
}

func matches(data Fields, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if f.Value == nil {
			if ok && v != nil {
				return false
			}
			continue
		}
		if !ok || fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func cloneFields(data Fields) Fields {
	out := make(Fields, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
