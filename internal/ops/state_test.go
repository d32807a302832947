package ops

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/hpungsan/supply/internal/db"
	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
func boolPtr(b bool) *bool       { return &b }

func emptySeed(ctx context.Context) *list.Document { return list.Empty(time.Now()) }

// newTestState opens a State on a fresh database seeded with nothing.
func newTestState(t *testing.T) (*State, *db.DocumentStore) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := db.NewDocumentStore(database)
	st, err := Open(context.Background(), store, emptySeed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return st, store
}

// memStore is an in-memory DocumentStore whose Load and Save can be made to fail.
type memStore struct {
	mu      sync.Mutex
	doc     *list.Document
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (*list.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.doc.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, d *list.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = d.Clone()
	return nil
}

func TestOpen_SeedsAndPersistsWhenEmpty(t *testing.T) {
	store := &memStore{}
	seeded := false
	seed := func(ctx context.Context) *list.Document {
		seeded = true
		d, _ := list.Apply(list.Empty(time.Now()), list.AddCategory{Name: "Produce"})
		return d
	}

	st, err := Open(context.Background(), store, seed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !seeded {
		t.Fatal("seed not called for empty store")
	}
	if st.Snapshot().Category("produce") == nil {
		t.Error("seeded category missing from state")
	}
	if store.saves != 1 || store.doc.Category("produce") == nil {
		t.Errorf("seed not persisted (saves=%d)", store.saves)
	}
}

func TestOpen_UsesStoredDocument(t *testing.T) {
	stored, _ := list.Apply(list.Empty(time.Now()), list.AddCategory{Name: "Dairy"})
	store := &memStore{doc: stored}

	st, err := Open(context.Background(), store, func(ctx context.Context) *list.Document {
		t.Error("seed must not be called when data is stored")
		return nil
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if st.Snapshot().Category("dairy") == nil {
		t.Error("stored document not loaded")
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestOpen_UnreadableStoreFallsBackToSeed(t *testing.T) {
	store := &memStore{loadErr: errors.NewInvalidFormat("garbage")}

	st, err := Open(context.Background(), store, emptySeed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if st.Snapshot() == nil {
		t.Fatal("no document after fallback")
	}
}

func TestOpen_NilSeedGivesEmptyDocument(t *testing.T) {
	st, err := Open(context.Background(), &memStore{}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	doc := st.Snapshot()
	if doc.Version != list.FormatVersion || len(doc.Categories) != 0 {
		t.Errorf("doc = %+v, want empty", doc)
	}
}

func TestOpen_SeedSaveFailureIsNotFatal(t *testing.T) {
	store := &memStore{saveErr: stderrors.New("disk full")}
	if _, err := Open(context.Background(), store, emptySeed); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
}

func TestOpen_NilStore(t *testing.T) {
	_, err := Open(context.Background(), nil, emptySeed)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestDispatch_StampsAndPersists(t *testing.T) {
	st, store := newTestState(t)
	fixed := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	doc, err := st.Dispatch(context.Background(), list.AddCategory{Name: "Produce"}, nil)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !doc.LastModified.Equal(fixed) {
		t.Errorf("LastModified = %v, want %v", doc.LastModified, fixed)
	}

	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if persisted.Category("produce") == nil {
		t.Error("mutation not persisted")
	}
	if !persisted.LastModified.Equal(fixed) {
		t.Errorf("persisted LastModified = %v, want %v", persisted.LastModified, fixed)
	}
}

func TestDispatch_FailedCommandLeavesStateAlone(t *testing.T) {
	store := &memStore{}
	st, err := Open(context.Background(), store, emptySeed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	saves := store.saves
	before := st.Snapshot()

	_, err = st.Dispatch(context.Background(), list.AddItem{ID: "item_x", CategoryID: "missing", Name: "X"}, nil)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if store.saves != saves {
		t.Error("failed command must not be persisted")
	}
	if !st.Snapshot().LastModified.Equal(before.LastModified) {
		t.Error("failed command must not stamp lastModified")
	}
}

func TestDispatch_DestructiveNeedsConfirmation(t *testing.T) {
	st, _ := newTestState(t)
	ctx := context.Background()
	if _, err := st.Dispatch(ctx, list.AddCategory{Name: "Produce"}, nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tests := []struct {
		name    string
		confirm Confirmer
	}{
		{"nil confirmer", nil},
		{"declined", Confirmed(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.Dispatch(ctx, list.DeleteCategory{ID: "produce"}, tt.confirm)
			if !errors.Is(err, errors.ErrConfirmationRequired) {
				t.Fatalf("err = %v, want CONFIRMATION_REQUIRED", err)
			}
			var sErr *errors.SupplyError
			stderrors.As(err, &sErr)
			if sErr.Details["prompt"] != `Delete "Produce"?` {
				t.Errorf("prompt = %v", sErr.Details["prompt"])
			}
			if st.Snapshot().Category("produce") == nil {
				t.Error("category deleted without confirmation")
			}
		})
	}

	var asked string
	confirm := ConfirmFunc(func(prompt string) bool {
		asked = prompt
		return true
	})
	if _, err := st.Dispatch(ctx, list.DeleteCategory{ID: "produce"}, confirm); err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	if asked != `Delete "Produce"?` {
		t.Errorf("prompt = %q", asked)
	}
	if st.Snapshot().Category("produce") != nil {
		t.Error("category not deleted after confirmation")
	}
}

func TestDispatch_PersistFailureKeepsChange(t *testing.T) {
	store := &memStore{}
	st, err := Open(context.Background(), store, emptySeed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.saveErr = stderrors.New("disk full")

	doc, err := st.Dispatch(context.Background(), list.AddCategory{Name: "Produce"}, nil)
	if !errors.Is(err, errors.ErrPersistFailed) {
		t.Fatalf("err = %v, want PERSIST_FAILED", err)
	}
	if doc == nil || doc.Category("produce") == nil {
		t.Error("updated document should be returned with PERSIST_FAILED")
	}
	if st.Snapshot().Category("produce") == nil {
		t.Error("in-memory change should stand after persist failure")
	}
	if store.doc.Category("produce") != nil {
		t.Error("store should still hold the old document")
	}
}

func TestDispatch_CancelledContext(t *testing.T) {
	st, _ := newTestState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Dispatch(ctx, list.AddCategory{Name: "Produce"}, nil)
	if !errors.Is(err, errors.ErrCancelled) {
		t.Fatalf("err = %v, want CANCELLED", err)
	}
	if st.Snapshot().Category("produce") != nil {
		t.Error("cancelled command was applied")
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	st, _ := newTestState(t)
	if _, err := st.Dispatch(context.Background(), list.AddCategory{Name: "Produce"}, nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	snap := st.Snapshot()
	snap.Categories[0].Name = "changed"
	snap.Categories = nil

	if got := st.Snapshot().Category("produce"); got == nil || got.Name != "Produce" {
		t.Error("snapshot mutation leaked into state")
	}
}

func TestDispatch_ConcurrentAdds(t *testing.T) {
	st, _ := newTestState(t)
	ctx := context.Background()
	if _, err := AddCategory(ctx, st, AddCategoryInput{Name: "Produce"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := AddItem(ctx, st, AddItemInput{CategoryID: "produce", Name: "Apples"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}
	if got := st.Snapshot().ItemCount(); got != n {
		t.Errorf("ItemCount = %d, want %d", got, n)
	}
}

func TestDispatch_MissingTargetIsNotFoundBeforeConfirm(t *testing.T) {
	st, _ := newTestState(t)
	ctx := context.Background()
	setupCategories(t, st, "Produce")

	asked := false
	confirm := ConfirmFunc(func(string) bool {
		asked = true
		return true
	})

	tests := []struct {
		name string
		cmd  list.Command
	}{
		{"delete category", list.DeleteCategory{ID: "dairy"}},
		{"delete item", list.DeleteItem{ItemID: "nope", CategoryID: "produce"}},
		{"delete item in missing category", list.DeleteItem{ItemID: "nope", CategoryID: "dairy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range []Confirmer{nil, Confirmed(false), confirm} {
				_, err := st.Dispatch(ctx, tt.cmd, c)
				if !errors.Is(err, errors.ErrNotFound) {
					t.Fatalf("err = %v, want NOT_FOUND", err)
				}
			}
			if asked {
				t.Error("confirmer asked about a missing target")
			}
		})
	}
	if len(st.Snapshot().Categories) != 1 {
		t.Error("document changed by failed deletes")
	}
}

func TestDeleteCategory_CountsMatchConcurrentAdds(t *testing.T) {
	st, _ := newTestState(t)
	ctx := context.Background()
	setupCategories(t, st, "Produce")

	const n = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
		out   *DeleteCategoryOutput
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := AddItem(ctx, st, AddItemInput{CategoryID: "produce", Name: "Apples"}); err == nil {
				mu.Lock()
				added++
				mu.Unlock()
			} else if !errors.Is(err, errors.ErrNotFound) {
				t.Errorf("AddItem failed: %v", err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if out, err = DeleteCategory(ctx, st, DeleteCategoryInput{ID: "produce"}, Confirmed(true)); err != nil {
			t.Errorf("DeleteCategory failed: %v", err)
		}
	}()
	wg.Wait()

	if out == nil {
		t.Fatal("no delete output")
	}
	if out.ItemsRemoved != added {
		t.Errorf("ItemsRemoved = %d, want %d (items added before the delete)", out.ItemsRemoved, added)
	}
}

func TestClearAndReset_CountReplacedDocument(t *testing.T) {
	st, _ := newTestState(t)
	ctx := context.Background()
	setupCategories(t, st, "Produce", "Dairy")
	for _, in := range []AddItemInput{
		{CategoryID: "produce", Name: "Apples", OnList: true},
		{CategoryID: "produce", Name: "Pears"},
		{CategoryID: "dairy", Name: "Milk", OnList: true},
	} {
		if _, err := AddItem(ctx, st, in); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	prev, next, err := st.commit(ctx, list.ClearShoppingList{}, Confirmed(true))
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if prev.ShoppingCount() != 2 || next.ShoppingCount() != 0 {
		t.Errorf("prev/next shopping = %d/%d, want 2/0", prev.ShoppingCount(), next.ShoppingCount())
	}

	reset, err := ResetAllData(ctx, st, Confirmed(true))
	if err != nil {
		t.Fatalf("ResetAllData failed: %v", err)
	}
	if reset.CategoriesRemoved != 2 || reset.ItemsRemoved != 3 {
		t.Errorf("reset = %+v, want 2 categories, 3 items", reset)
	}
}
