package catalog

import "strings"

// Store is the load-once, read-many camp catalog with an eager id index.
type Store struct {
	camps []Camp
	byID  map[string]*Camp
}

// NewStore builds a Store from a loaded camp list. The slice is copied so
// later mutation of the input cannot break the immutability guarantee.
func NewStore(camps []Camp) *Store {
	owned := make([]Camp, len(camps))
	copy(owned, camps)

	index := make(map[string]*Camp, len(owned))
	for i := range owned {
		index[owned[i].ID] = &owned[i]
	}
	return &Store{camps: owned, byID: index}
}

// All returns every camp in load order.
func (s *Store) All() []Camp {
	return s.camps
}

// Len returns the number of camps in the catalog.
func (s *Store) Len() int {
	return len(s.camps)
}

// Get resolves a camp by id, or nil when the id is unknown. The same id
// always yields the same instance for the lifetime of the store.
func (s *Store) Get(id string) *Camp {
	return s.byID[id]
}

// Search returns camps whose name or category contains the query,
// case-insensitively. An empty query matches everything.
func (s *Store) Search(query string) []Camp {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.All()
	}
	var out []Camp
	for _, c := range s.camps {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Category), q) {
			out = append(out, c)
		}
	}
	return out
}
