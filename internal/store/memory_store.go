package store

import (
	"sync"
)

// MemoryStore is an in-process KeyValueStore used by tests and local
// development. It preserves the contract's scan semantics: every lookup
// walks the whole table.
type MemoryStore struct {
	mu     sync.Mutex
	schema Schema
	tables map[string]*memoryTable
}

type memoryTable struct {
	order []string
	items map[string]Item
}

// NewMemoryStore creates an empty in-memory store for the given schema.
func NewMemoryStore(schema Schema) *MemoryStore {
	return &MemoryStore{
		schema: schema,
		tables: make(map[string]*memoryTable),
	}
}

func (s *MemoryStore) table(name string) *memoryTable {
	t, ok := s.tables[name]
	if !ok {
		t = &memoryTable{items: make(map[string]Item)}
		s.tables[name] = t
	}
	return t
}

// Get implements KeyValueStore.
func (s *MemoryStore) Get(table string, key Value) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.table(table).items[key.Raw()]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

// Put implements KeyValueStore.
func (s *MemoryStore) Put(table string, item Item, cond PutCondition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.schema.itemKey(table, item)
	if err != nil {
		return err
	}

	t := s.table(table)
	_, exists := t.items[key]
	if exists && cond == IfNotExists {
		return ErrItemExists
	}
	if !exists {
		t.order = append(t.order, key)
	}
	t.items[key] = item.Clone()
	return nil
}

// Scan implements KeyValueStore.
func (s *MemoryStore) Scan(table string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	out := make([]Item, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.items[key].Clone())
	}
	return out, nil
}

// FilteredScan implements KeyValueStore.
func (s *MemoryStore) FilteredScan(table, column string, value Value) ([]Item, error) {
	items, err := s.Scan(table)
	if err != nil {
		return nil, err
	}

	var matched []Item
	for _, item := range items {
		if v, ok := item[column]; ok && v.Equal(value) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// NextID implements KeyValueStore.
func (s *MemoryStore) NextID(table string) (int, error) {
	items, err := s.Scan(table)
	if err != nil {
		return 0, err
	}
	return maxIDPlusOne(items)
}

// Now implements KeyValueStore.
func (s *MemoryStore) Now() string {
	return formatNow()
}
