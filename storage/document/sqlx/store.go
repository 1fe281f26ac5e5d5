package sqlxdoc

import (
	"database/sql"
	"encoding/json"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    data JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store keeps each named document as a single jsonb row, for deployments
// where a shared Postgres is available. Save stays a whole-document
// overwrite: one UPSERT, so readers see either the old or the new content.
type Store struct {
	db *sqlx.DB
}

var _ core.DocumentStore = (*Store)(nil)

func Open(conf *core.Config) (*Store, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open(conf.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(db); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "creating documents table")
	}
	return &Store{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *Store) Load(name string, v interface{}) error {
	var data []byte
	if err := s.db.Get(&data, `SELECT data FROM documents WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrapf(err, "reading document %s", name)
	}
	core.DecodeDocument(data, v)
	return nil
}

func (s *Store) Save(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "serializing document %s", name)
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (name, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, data,
	)
	if err != nil {
		return errors.Wrapf(err, "writing document %s", name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
