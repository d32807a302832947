package ops

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

// DocumentStore persists the whole document.
// Load returns nil, nil when nothing has been stored yet.
type DocumentStore interface {
	Load(ctx context.Context) (*list.Document, error)
	Save(ctx context.Context, d *list.Document) error
}

// Seeder produces the initial document when the store is empty. It must not fail.
type Seeder func(ctx context.Context) *list.Document

// State owns the live document. All reads and writes go through it and are
// serialized by its mutex; callers only ever see deep copies.
type State struct {
	mu    sync.Mutex
	store DocumentStore
	doc   *list.Document
	now   func() time.Time
}

// Open loads the stored document, falling back to seed when nothing is stored
// or the stored value cannot be read. A seeded document is persisted
// immediately; a failure to do so is logged and does not stop startup.
func Open(ctx context.Context, store DocumentStore, seed Seeder) (*State, error) {
	if store == nil {
		return nil, errors.NewInvalidRequest("document store is required")
	}
	s := &State{store: store, now: time.Now}

	doc, err := store.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("open")
		}
		log.Printf("supply: stored data unreadable, using seed: %v", err)
		doc = nil
	}
	if doc != nil {
		s.doc = doc
		return s, nil
	}

	if seed != nil {
		doc = seed(ctx)
	}
	if doc == nil {
		doc = list.Empty(s.now())
	}
	doc.LastModified = s.now().UTC()
	s.doc = doc
	if err := store.Save(ctx, doc); err != nil {
		log.Printf("supply: failed to save seeded data: %v", err)
	}
	return s, nil
}

// Snapshot returns a deep copy of the current document.
func (s *State) Snapshot() *list.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Dispatch runs cmd against the document. The command is applied first, so
// a missing target fails with NOT_FOUND before anyone is asked to confirm.
// Destructive commands must then be accepted by confirm. On success the new
// document is stamped, persisted and returned as a copy.
//
// If persisting fails the change is kept in memory and a PERSIST_FAILED
// error is returned alongside the updated document.
func (s *State) Dispatch(ctx context.Context, cmd list.Command, confirm Confirmer) (*list.Document, error) {
	_, next, err := s.commit(ctx, cmd, confirm)
	return next, err
}

// commit is Dispatch that also returns the document the command replaced.
// prev is no longer referenced by the state once next is non-nil.
func (s *State) commit(ctx context.Context, cmd list.Command, confirm Confirmer) (prev, next *list.Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, errors.NewCancelled(cmd.Action())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err = list.Apply(s.doc, cmd)
	if err != nil {
		return nil, nil, err
	}

	if d, ok := cmd.(list.Destructive); ok {
		prompt := d.Prompt(s.doc)
		if confirm == nil || !confirm.Confirm(prompt) {
			return nil, nil, errors.NewConfirmationRequired(cmd.Action(), prompt)
		}
	}

	next.LastModified = s.now().UTC()
	prev, s.doc = s.doc, next

	if err := s.store.Save(ctx, next); err != nil {
		log.Printf("supply: %s applied but not saved: %v", cmd.Action(), err)
		return prev, next.Clone(), errors.NewPersistFailed(err)
	}
	return prev, next.Clone(), nil
}
