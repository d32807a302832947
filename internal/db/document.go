package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

// StorageKey is the kv key the document is stored under.
const StorageKey = "supply_data"

// DocumentStore persists the whole document as one JSON value.
type DocumentStore struct {
	db  *sql.DB
	key string
}

// NewDocumentStore returns a store backed by db under StorageKey.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db, key: StorageKey}
}

// Load returns the stored document, or nil with no error when nothing
// has been saved yet. A stored value that does not parse is returned as
// an INVALID_FORMAT error; the caller decides whether to fall back.
func (s *DocumentStore) Load(ctx context.Context) (*list.Document, error) {
	raw, err := Get(ctx, s.db, s.key)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return list.Parse([]byte(raw))
}

// Save overwrites the stored document.
func (s *DocumentStore) Save(ctx context.Context, d *list.Document) error {
	data, err := list.Marshal(d)
	if err != nil {
		return err
	}
	return Put(ctx, s.db, s.key, string(data))
}
