// Package responses holds the live answers captured for one widget session and
// the immutable snapshots taken when the user submits.
package responses

import (
	"sort"

	"github.com/bytedance/sonic"
)

// Store maps element ids to the value currently captured for them. A Store is
// owned by a single widget session; it is not safe for concurrent use and
// callers that share it across goroutines must serialise access.
type Store struct {
	values map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set inserts or overwrites the value for id. Values are not checked against
// the element type.
func (s *Store) Set(id, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[id] = value
}

// Get returns the value for id. A false result means "not yet answered".
func (s *Store) Get(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[id]
	return value, ok
}

// Has reports whether id has an answer.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Len reports the number of answered ids.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the answered ids sorted lexically.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.values)
}

// Snapshot returns an independent copy of the current answers.
func (s *Store) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{values: cloneValues(s.values)}
}

// Reset clears every answer.
func (s *Store) Reset() {
	s.values = make(map[string]string)
}

// Retain keeps the answers whose id appears in ids and drops the rest.
func (s *Store) Retain(ids []string) {
	if s == nil || len(s.values) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for id := range s.values {
		if _, ok := keep[id]; !ok {
			delete(s.values, id)
		}
	}
}

// Snapshot is an immutable copy of a Store taken at submission time. The zero
// value is an empty snapshot.
type Snapshot struct {
	values map[string]string
}

// NewSnapshot builds a snapshot from a plain map, copying it.
func NewSnapshot(values map[string]string) Snapshot {
	return Snapshot{values: cloneValues(values)}
}

// Get returns the captured value for id.
func (s Snapshot) Get(id string) (string, bool) {
	value, ok := s.values[id]
	return value, ok
}

// Len reports the number of captured answers.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Keys returns the captured ids sorted lexically.
func (s Snapshot) Keys() []string {
	return sortedKeys(s.values)
}

// Values returns a copy of the captured answers.
func (s Snapshot) Values() map[string]string {
	return cloneValues(s.values)
}

// Equal reports whether two snapshots hold the same answers.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for key, value := range s.values {
		if got, ok := other.values[key]; !ok || got != value {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as a flat object.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return sonic.ConfigStd.Marshal(s.values)
}

// UnmarshalJSON decodes a flat object of string values.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	values := map[string]string{}
	if err := sonic.Unmarshal(data, &values); err != nil {
		return err
	}
	s.values = values
	return nil
}

func cloneValues(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
