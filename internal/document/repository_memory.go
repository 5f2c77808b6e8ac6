package document

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used in tests and for DB-less
// development.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[int64]Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[int64]Document)}
}

func (r *MemoryRepository) All(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]Document, 0, len(r.data))
	for _, d := range r.data {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (r *MemoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := r.data[id]; ok {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *Document
	for id, doc := range r.data {
		if doc.Name != name {
			continue
		}
		if found == nil || id < found.ID {
			d := doc
			found = &d
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *MemoryRepository) NameExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.data {
		if doc.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) NameExistsExcept(ctx context.Context, name string, exceptID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, doc := range r.data {
		if id != exceptID && doc.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) MaxID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var maxID int64
	for id := range r.data {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

func (r *MemoryRepository) Create(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = *doc
	return nil
}

func (r *MemoryRepository) UpdateContent(ctx context.Context, id int64, content []byte, modifiedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.Content = content
	doc.ModifiedAt = modifiedAt
	r.data[id] = doc
	return nil
}

func (r *MemoryRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.data[id]; ok {
			delete(r.data, id)
			deleted++
		}
	}
	return deleted, nil
}
