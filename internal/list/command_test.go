package list

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/supply/internal/errors"
)

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// mustApply applies cmd and fails the test on error.
func mustApply(t *testing.T, d *Document, cmd Command) *Document {
	t.Helper()
	next, err := Apply(d, cmd)
	if err != nil {
		t.Fatalf("Apply(%s) error = %v", cmd.Action(), err)
	}
	return next
}

// fixture returns a document with two categories and three items.
func fixture(t *testing.T) *Document {
	t.Helper()
	d := Empty(time.Unix(0, 0))
	d = mustApply(t, d, AddCategory{Name: "Produce", SortOrder: intPtr(1), Color: "#22c55e"})
	d = mustApply(t, d, AddCategory{Name: "Dairy", SortOrder: intPtr(2), Color: "#3b82f6"})
	d = mustApply(t, d, AddItem{ID: "item_a", CategoryID: "produce", Name: "Apples", OnList: true})
	d = mustApply(t, d, AddItem{ID: "item_b", CategoryID: "produce", Name: "Bananas"})
	d = mustApply(t, d, AddItem{ID: "item_m", CategoryID: "dairy", Name: "Milk", Notes: "2%", OnList: true})
	return d
}

// assertOwnership checks that item ids are unique and each item sits in one category.
func assertOwnership(t *testing.T, d *Document) {
	t.Helper()
	seen := make(map[string]string)
	for _, c := range d.Categories {
		for _, it := range c.Items {
			if owner, ok := seen[it.ID]; ok {
				t.Fatalf("item %s appears in %s and %s", it.ID, owner, c.ID)
			}
			seen[it.ID] = c.ID
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	d := fixture(t)
	before, err := Marshal(d)
	require.NoError(t, err)

	_, err = Apply(d, ClearShoppingList{})
	require.NoError(t, err)
	_, err = Apply(d, DeleteCategory{ID: "produce"})
	require.NoError(t, err)

	after, err := Marshal(d)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestAddCategory(t *testing.T) {
	d := Empty(time.Now())

	d = mustApply(t, d, AddCategory{Name: "  Produce  ", SortOrder: intPtr(1), Color: "#22c55e"})
	cat := d.Category("produce")
	if cat == nil {
		t.Fatal("category produce not created")
	}
	if cat.Name != "Produce" {
		t.Errorf("Name = %q, want %q", cat.Name, "Produce")
	}
	if cat.Color != "#22c55e" {
		t.Errorf("Color = %q, want %q", cat.Color, "#22c55e")
	}
	if cat.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestAddCategory_Defaults(t *testing.T) {
	d := Empty(time.Now())
	d = mustApply(t, d, AddCategory{Name: "First"})
	d = mustApply(t, d, AddCategory{Name: "Big", SortOrder: intPtr(10)})
	d = mustApply(t, d, AddCategory{Name: "Next"})

	if got := d.Category("first").SortOrder; got != 1 {
		t.Errorf("first SortOrder = %d, want 1", got)
	}
	if got := d.Category("next").SortOrder; got != 11 {
		t.Errorf("next SortOrder = %d, want 11", got)
	}
	if got := d.Category("first").Color; got != DefaultColor {
		t.Errorf("Color = %q, want %q", got, DefaultColor)
	}
}

func TestAddCategory_EmptyName(t *testing.T) {
	_, err := Apply(Empty(time.Now()), AddCategory{Name: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestAddCategory_DerivedIDCollision(t *testing.T) {
	d := mustApply(t, Empty(time.Now()), AddCategory{Name: "A!"})

	_, err := Apply(d, AddCategory{Name: "A?"})
	if !errors.Is(err, errors.ErrCategoryExists) {
		t.Fatalf("err = %v, want CATEGORY_EXISTS", err)
	}
	if len(d.Categories) != 1 {
		t.Errorf("categories = %d, want 1", len(d.Categories))
	}
}

func TestEditCategory(t *testing.T) {
	d := fixture(t)

	d = mustApply(t, d, EditCategory{
		ID:        "produce",
		Name:      stringPtr("Fruit & Veg"),
		SortOrder: intPtr(5),
		Color:     stringPtr("#ef4444"),
	})

	cat := d.Category("produce")
	if cat == nil {
		t.Fatal("id must not change on rename")
	}
	if cat.Name != "Fruit & Veg" || cat.SortOrder != 5 || cat.Color != "#ef4444" {
		t.Errorf("category = %+v", cat)
	}
	if len(cat.Items) != 2 {
		t.Errorf("items = %d, want 2", len(cat.Items))
	}
}

func TestEditCategory_Errors(t *testing.T) {
	d := fixture(t)

	_, err := Apply(d, EditCategory{ID: "nope", Name: stringPtr("x")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing category: err = %v, want NOT_FOUND", err)
	}

	_, err = Apply(d, EditCategory{ID: "produce", Name: stringPtr(" ")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank name: err = %v, want INVALID_REQUEST", err)
	}
}

func TestDeleteCategory_Cascade(t *testing.T) {
	d := fixture(t)

	d = mustApply(t, d, DeleteCategory{ID: "produce"})

	if d.Category("produce") != nil {
		t.Fatal("category still present")
	}
	for _, id := range []string{"item_a", "item_b"} {
		if it, _ := d.FindItem(id); it != nil {
			t.Errorf("item %s survived category delete", id)
		}
	}
	if d.ItemCount() != 1 {
		t.Errorf("ItemCount = %d, want 1", d.ItemCount())
	}
}

func TestDeleteCategory_Prompt(t *testing.T) {
	d := fixture(t)
	if got := (DeleteCategory{ID: "produce"}).Prompt(d); got != `Delete "Produce" and all 2 items?` {
		t.Errorf("Prompt = %q", got)
	}
	d = mustApply(t, d, AddCategory{Name: "Empty"})
	if got := (DeleteCategory{ID: "empty"}).Prompt(d); got != `Delete "Empty"?` {
		t.Errorf("Prompt = %q", got)
	}
}

func TestAddItem(t *testing.T) {
	d := fixture(t)

	d = mustApply(t, d, AddItem{ID: "item_c", CategoryID: "produce", Name: " Carrots ", Notes: " organic "})
	it, owner := d.FindItem("item_c")
	require.NotNil(t, it)
	require.Equal(t, "produce", owner.ID)
	require.Equal(t, "Carrots", it.Name)
	require.Equal(t, "organic", it.Notes)
	require.False(t, it.IsOnShoppingList)
}

func TestAddItem_Errors(t *testing.T) {
	d := fixture(t)

	tests := []struct {
		name string
		cmd  AddItem
		code errors.ErrorCode
	}{
		{"missing category", AddItem{ID: "item_x", CategoryID: "bakery", Name: "Bread"}, errors.ErrNotFound},
		{"blank name", AddItem{ID: "item_x", CategoryID: "produce", Name: "  "}, errors.ErrInvalidRequest},
		{"no id", AddItem{CategoryID: "produce", Name: "Pears"}, errors.ErrInvalidRequest},
		{"duplicate id elsewhere", AddItem{ID: "item_m", CategoryID: "produce", Name: "Pears"}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(d, tt.cmd)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEditItem_FieldsInPlace(t *testing.T) {
	d := fixture(t)

	d = mustApply(t, d, EditItem{
		ItemID:             "item_b",
		OriginalCategoryID: "produce",
		Name:               stringPtr("Plantains"),
		Notes:              stringPtr("ripe"),
		OnList:             boolPtr(true),
	})

	it := d.Category("produce").Item("item_b")
	require.NotNil(t, it)
	require.Equal(t, "Plantains", it.Name)
	require.Equal(t, "ripe", it.Notes)
	require.True(t, it.IsOnShoppingList)
}

func TestEditItem_MoveSemantics(t *testing.T) {
	d := fixture(t)
	total := d.ItemCount()

	d = mustApply(t, d, EditItem{
		ItemID:             "item_a",
		OriginalCategoryID: "produce",
		Name:               stringPtr("Apples"),
		NewCategoryID:      "dairy",
	})

	require.Nil(t, d.Category("produce").Item("item_a"))
	dairy := d.Category("dairy")
	require.Len(t, dairy.Items, 2)
	moved := dairy.Items[len(dairy.Items)-1]
	require.Equal(t, "item_a", moved.ID)
	require.Equal(t, "Apples", moved.Name)
	require.True(t, moved.IsOnShoppingList)
	require.Equal(t, total, d.ItemCount())
	assertOwnership(t, d)
}

func TestEditItem_MissingDestinationKeepsItem(t *testing.T) {
	d := fixture(t)

	_, err := Apply(d, EditItem{
		ItemID:             "item_a",
		OriginalCategoryID: "produce",
		Name:               stringPtr("Renamed"),
		NewCategoryID:      "nowhere",
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}

	it := d.Category("produce").Item("item_a")
	if it == nil {
		t.Fatal("item lost after rejected move")
	}
	if it.Name != "Apples" {
		t.Errorf("Name = %q, rejected edit must not apply", it.Name)
	}
}

func TestEditItem_Errors(t *testing.T) {
	d := fixture(t)

	_, err := Apply(d, EditItem{ItemID: "item_a", OriginalCategoryID: "dairy"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("wrong category: err = %v, want NOT_FOUND", err)
	}
	_, err = Apply(d, EditItem{ItemID: "item_a", OriginalCategoryID: "produce", Name: stringPtr("")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank name: err = %v, want INVALID_REQUEST", err)
	}
}

func TestDeleteItem(t *testing.T) {
	d := fixture(t)

	d = mustApply(t, d, DeleteItem{ItemID: "item_b", CategoryID: "produce"})
	require.Nil(t, d.Category("produce").Item("item_b"))
	require.Equal(t, 2, d.ItemCount())

	_, err := Apply(d, DeleteItem{ItemID: "item_b", CategoryID: "produce"})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestToggleItem_Idempotent(t *testing.T) {
	d := fixture(t)
	orig := d.Category("produce").Item("item_b").IsOnShoppingList

	d = mustApply(t, d, ToggleItem{ItemID: "item_b", CategoryID: "produce"})
	require.Equal(t, !orig, d.Category("produce").Item("item_b").IsOnShoppingList)

	d = mustApply(t, d, ToggleItem{ItemID: "item_b", CategoryID: "produce"})
	require.Equal(t, orig, d.Category("produce").Item("item_b").IsOnShoppingList)
}

func TestCheckOffItem(t *testing.T) {
	d := fixture(t)
	d = mustApply(t, d, CheckOffItem{ItemID: "item_a", CategoryID: "produce"})
	require.False(t, d.Category("produce").Item("item_a").IsOnShoppingList)

	// already off stays off
	d = mustApply(t, d, CheckOffItem{ItemID: "item_a", CategoryID: "produce"})
	require.False(t, d.Category("produce").Item("item_a").IsOnShoppingList)
}

func TestClearShoppingList(t *testing.T) {
	d := fixture(t)
	require.Equal(t, 2, d.ShoppingCount())

	d = mustApply(t, d, ClearShoppingList{})
	require.Equal(t, 0, d.ShoppingCount())
	require.Equal(t, 3, d.ItemCount())
}

func TestReset(t *testing.T) {
	d := fixture(t)
	d = mustApply(t, d, Reset{})
	require.Empty(t, d.Categories)
	require.NotNil(t, d.Categories)
	require.Equal(t, FormatVersion, d.Version)
}

func TestReplace(t *testing.T) {
	d := fixture(t)
	repl := Empty(time.Now())
	repl.Categories = append(repl.Categories, &Category{ID: "x", Name: "X", Items: []*Item{}})

	d = mustApply(t, d, Replace{Document: repl})
	require.Len(t, d.Categories, 1)
	require.Equal(t, "x", d.Categories[0].ID)

	// the replacement is copied, not aliased
	repl.Categories[0].Name = "changed"
	require.Equal(t, "X", d.Categories[0].Name)

	_, err := Apply(d, Replace{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestDestructiveCommands(t *testing.T) {
	destructive := []Command{DeleteCategory{}, DeleteItem{}, ClearShoppingList{}, Reset{}}
	for _, cmd := range destructive {
		if _, ok := cmd.(Destructive); !ok {
			t.Errorf("%s should be Destructive", cmd.Action())
		}
	}

	safe := []Command{AddCategory{}, EditCategory{}, AddItem{}, EditItem{}, ToggleItem{}, CheckOffItem{}, Replace{}}
	for _, cmd := range safe {
		if _, ok := cmd.(Destructive); ok {
			t.Errorf("%s should not be Destructive", cmd.Action())
		}
	}
}

// TestInvariants_RandomSequence drives a long mixed sequence of commands and
// checks ownership and id uniqueness after every step.
func TestInvariants_RandomSequence(t *testing.T) {
	d := Empty(time.Now())
	cats := []string{"produce", "dairy", "bakery"}
	for _, name := range []string{"Produce", "Dairy", "Bakery"} {
		d = mustApply(t, d, AddCategory{Name: name})
	}

	var ids []string
	for step := 0; step < 300; step++ {
		var cmd Command
		switch step % 5 {
		case 0, 1:
			id := fmt.Sprintf("item_%03d", step)
			ids = append(ids, id)
			cmd = AddItem{ID: id, CategoryID: cats[step%3], Name: id}
		case 2:
			id := ids[step%len(ids)]
			_, owner := d.FindItem(id)
			if owner == nil {
				continue
			}
			cmd = EditItem{ItemID: id, OriginalCategoryID: owner.ID, NewCategoryID: cats[(step/5)%3]}
		case 3:
			id := ids[(step*7)%len(ids)]
			_, owner := d.FindItem(id)
			if owner == nil {
				continue
			}
			cmd = ToggleItem{ItemID: id, CategoryID: owner.ID}
		case 4:
			id := ids[(step*3)%len(ids)]
			_, owner := d.FindItem(id)
			if owner == nil || step%4 != 0 {
				continue
			}
			cmd = DeleteItem{ItemID: id, CategoryID: owner.ID}
		}
		d = mustApply(t, d, cmd)
		assertOwnership(t, d)
	}
}
