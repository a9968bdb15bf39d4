package itemstore

import (
	"context"
	"sort"
	"sync"

	"github.com/muurk/shoplist/internal/item"
)

// MemoryStore is an in-process Store. Ids are assigned sequentially, starting
// after the highest seeded id. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int]item.Item
	nextID int
}

// NewMemoryStore creates a store holding a copy of seed.
func NewMemoryStore(seed []item.Item) *MemoryStore {
	s := &MemoryStore{items: make(map[int]item.Item, len(seed)), nextID: 1}
	for _, it := range seed {
		s.items[it.ID] = it
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	return s
}

// List returns all items ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewNetworkError("list", "request cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]item.Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Get returns the item with the given id.
func (s *MemoryStore) Get(ctx context.Context, id int) (item.Item, error) {
	if err := ctx.Err(); err != nil {
		return item.Item{}, NewNetworkError("get", "request cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return item.Item{}, NewNotFoundError("get", id)
	}
	return it, nil
}

// Create stores d under the next id.
func (s *MemoryStore) Create(ctx context.Context, d item.Draft) (item.Item, error) {
	if err := ctx.Err(); err != nil {
		return item.Item{}, NewNetworkError("create", "request cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it := d.Item()
	it.ID = s.nextID
	s.nextID++
	s.items[it.ID] = it
	return it, nil
}

// Update replaces an existing item.
func (s *MemoryStore) Update(ctx context.Context, it item.Item) (item.Item, error) {
	if err := ctx.Err(); err != nil {
		return item.Item{}, NewNetworkError("update", "request cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID]; !ok {
		return item.Item{}, NewNotFoundError("update", it.ID)
	}
	s.items[it.ID] = it
	return it, nil
}

// Delete removes an item.
func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return NewNetworkError("delete", "request cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return NewNotFoundError("delete", id)
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
