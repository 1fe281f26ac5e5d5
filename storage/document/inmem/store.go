package inmemdoc

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
)

// Store is a map-backed document store for tests and ephemeral runs.
// Documents round-trip through JSON so stored state is a snapshot, never a
// live reference to the caller's value.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ core.DocumentStore = (*Store)(nil)

func Open() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Load(name string, v interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[name]
	if !ok {
		return nil
	}
	core.DecodeDocument(data, v)
	return nil
}

func (s *Store) Save(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "serializing document %s", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
	return nil
}
