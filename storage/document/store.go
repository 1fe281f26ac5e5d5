package document

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
)

// Store is the filesystem-backed document store: one pretty-printed JSON
// file per document name under dir, mirroring the documents directory the
// mobile app keeps its users.json/absensi.json in.
type Store struct {
	dir string
}

var _ core.DocumentStore = (*Store)(nil)

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating document dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named document into v. A missing or unparsable file is the
// "not yet created" case: v keeps its default value and no error is returned.
func (s *Store) Load(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading document %s", name)
	}
	core.DecodeDocument(data, v)
	return nil
}

// Save writes the whole serialized document atomically: the content goes to
// a uniquely named temp file first and is renamed over the document, so a
// reader never observes a partial write and a failed Save leaves the prior
// content intact.
func (s *Store) Save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "serializing document %s", name)
	}

	tmp := s.path(name) + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing document %s", name)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "replacing document %s", name)
	}
	return nil
}
