package list

import (
	"fmt"

	"github.com/hpungsan/supply/internal/errors"
)

// Command is a single user intent against a Document.
// Commands are applied by Apply, which never mutates its input.
type Command interface {
	// Action is a stable short name for logs and confirmation errors.
	Action() string
	apply(d *Document) error
}

// Destructive commands remove data and must be confirmed before Apply.
type Destructive interface {
	Command
	// Prompt describes what will be lost, phrased as a yes/no question.
	Prompt(d *Document) string
}

// Apply returns the document that results from running cmd against d.
// d is left untouched; on error the returned document is nil.
func Apply(d *Document, cmd Command) (*Document, error) {
	if d == nil {
		return nil, errors.NewInvalidRequest("no document loaded")
	}
	next := d.Clone()
	if err := cmd.apply(next); err != nil {
		return nil, err
	}
	return next, nil
}

// AddCategory appends a new category whose id is derived from Name.
type AddCategory struct {
	Name      string
	SortOrder *int   // nil: one past the current maximum
	Color     string // empty: DefaultColor
}

func (AddCategory) Action() string { return "add_category" }

func (c AddCategory) apply(d *Document) error {
	name := CleanName(c.Name)
	if name == "" {
		return errors.NewInvalidRequest("category name must not be empty")
	}
	id := CategoryID(name)
	if d.Category(id) != nil {
		return errors.NewCategoryExists(id, name)
	}

	order := d.nextSortOrder()
	if c.SortOrder != nil {
		order = *c.SortOrder
	}
	color := c.Color
	if color == "" {
		color = DefaultColor
	}

	d.Categories = append(d.Categories, &Category{
		ID:        id,
		Name:      name,
		Color:     color,
		SortOrder: order,
		Items:     []*Item{},
	})
	return nil
}

// EditCategory updates fields of an existing category in place.
// Nil fields are left unchanged. The id never changes, even on rename.
type EditCategory struct {
	ID        string
	Name      *string
	SortOrder *int
	Color     *string
}

func (EditCategory) Action() string { return "edit_category" }

func (c EditCategory) apply(d *Document) error {
	cat := d.Category(c.ID)
	if cat == nil {
		return errors.NewCategoryNotFound(c.ID)
	}
	if c.Name != nil {
		name := CleanName(*c.Name)
		if name == "" {
			return errors.NewInvalidRequest("category name must not be empty")
		}
		cat.Name = name
	}
	if c.SortOrder != nil {
		cat.SortOrder = *c.SortOrder
	}
	if c.Color != nil && *c.Color != "" {
		cat.Color = *c.Color
	}
	return nil
}

// DeleteCategory removes a category together with all of its items.
type DeleteCategory struct {
	ID string
}

func (DeleteCategory) Action() string { return "delete_category" }

func (c DeleteCategory) Prompt(d *Document) string {
	cat := d.Category(c.ID)
	if cat == nil {
		return fmt.Sprintf("Delete category %q?", c.ID)
	}
	if n := len(cat.Items); n > 0 {
		return fmt.Sprintf("Delete %q and all %d items?", cat.Name, n)
	}
	return fmt.Sprintf("Delete %q?", cat.Name)
}

func (c DeleteCategory) apply(d *Document) error {
	i := d.categoryIndex(c.ID)
	if i < 0 {
		return errors.NewCategoryNotFound(c.ID)
	}
	d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
	return nil
}

// AddItem appends a new item to a category. ID must be pre-generated
// (see NewItemID) so that Apply stays deterministic.
type AddItem struct {
	ID         string
	CategoryID string
	Name       string
	Notes      string
	OnList     bool
}

func (AddItem) Action() string { return "add_item" }

func (c AddItem) apply(d *Document) error {
	name := CleanName(c.Name)
	if name == "" {
		return errors.NewInvalidRequest("item name must not be empty")
	}
	if c.ID == "" {
		return errors.NewInvalidRequest("item id is required")
	}
	cat := d.Category(c.CategoryID)
	if cat == nil {
		return errors.NewCategoryNotFound(c.CategoryID)
	}
	if _, owner := d.FindItem(c.ID); owner != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("item id %q already in use", c.ID))
	}
	cat.Items = append(cat.Items, &Item{
		ID:               c.ID,
		Name:             name,
		Notes:            CleanName(c.Notes),
		IsOnShoppingList: c.OnList,
	})
	return nil
}

// EditItem updates an item and optionally moves it to another category.
// The destination is checked before anything is changed, so a bad
// NewCategoryID never drops the item.
type EditItem struct {
	ItemID             string
	OriginalCategoryID string
	Name               *string
	Notes              *string
	OnList             *bool
	NewCategoryID      string // empty or equal to OriginalCategoryID: no move
}

func (EditItem) Action() string { return "edit_item" }

func (c EditItem) apply(d *Document) error {
	src := d.Category(c.OriginalCategoryID)
	if src == nil {
		return errors.NewCategoryNotFound(c.OriginalCategoryID)
	}
	idx := src.itemIndex(c.ItemID)
	if idx < 0 {
		return errors.NewItemNotFound(c.ItemID, c.OriginalCategoryID)
	}

	var dst *Category
	if c.NewCategoryID != "" && c.NewCategoryID != c.OriginalCategoryID {
		dst = d.Category(c.NewCategoryID)
		if dst == nil {
			return errors.NewCategoryNotFound(c.NewCategoryID)
		}
	}

	item := src.Items[idx]
	if c.Name != nil {
		name := CleanName(*c.Name)
		if name == "" {
			return errors.NewInvalidRequest("item name must not be empty")
		}
		item.Name = name
	}
	if c.Notes != nil {
		item.Notes = CleanName(*c.Notes)
	}
	if c.OnList != nil {
		item.IsOnShoppingList = *c.OnList
	}

	if dst != nil {
		src.Items = append(src.Items[:idx], src.Items[idx+1:]...)
		dst.Items = append(dst.Items, item)
	}
	return nil
}

// DeleteItem removes an item from its category.
type DeleteItem struct {
	ItemID     string
	CategoryID string
}

func (DeleteItem) Action() string { return "delete_item" }

func (c DeleteItem) Prompt(d *Document) string {
	if cat := d.Category(c.CategoryID); cat != nil {
		if it := cat.Item(c.ItemID); it != nil {
			return fmt.Sprintf("Delete %q?", it.Name)
		}
	}
	return "Delete this item?"
}

func (c DeleteItem) apply(d *Document) error {
	cat := d.Category(c.CategoryID)
	if cat == nil {
		return errors.NewCategoryNotFound(c.CategoryID)
	}
	idx := cat.itemIndex(c.ItemID)
	if idx < 0 {
		return errors.NewItemNotFound(c.ItemID, c.CategoryID)
	}
	cat.Items = append(cat.Items[:idx], cat.Items[idx+1:]...)
	return nil
}

// ToggleItem flips an item's shopping-list flag.
type ToggleItem struct {
	ItemID     string
	CategoryID string
}

func (ToggleItem) Action() string { return "toggle_item" }

func (c ToggleItem) apply(d *Document) error {
	it, err := d.lookupItem(c.ItemID, c.CategoryID)
	if err != nil {
		return err
	}
	it.IsOnShoppingList = !it.IsOnShoppingList
	return nil
}

// CheckOffItem takes a single item off the shopping list.
type CheckOffItem struct {
	ItemID     string
	CategoryID string
}

func (CheckOffItem) Action() string { return "check_off_item" }

func (c CheckOffItem) apply(d *Document) error {
	it, err := d.lookupItem(c.ItemID, c.CategoryID)
	if err != nil {
		return err
	}
	it.IsOnShoppingList = false
	return nil
}

// ClearShoppingList takes every item off the shopping list.
type ClearShoppingList struct{}

func (ClearShoppingList) Action() string { return "clear_shopping_list" }

func (ClearShoppingList) Prompt(d *Document) string {
	return "Clear all items from shopping list?"
}

func (ClearShoppingList) apply(d *Document) error {
	for _, cat := range d.Categories {
		for _, it := range cat.Items {
			it.IsOnShoppingList = false
		}
	}
	return nil
}

// Reset replaces the document with an empty one.
type Reset struct{}

func (Reset) Action() string { return "reset" }

func (Reset) Prompt(d *Document) string {
	return "Delete ALL data? This cannot be undone."
}

func (Reset) apply(d *Document) error {
	*d = *Empty(d.LastModified)
	return nil
}

// Replace swaps in a whole document, as produced by Parse.
type Replace struct {
	Document *Document
}

func (Replace) Action() string { return "replace" }

func (c Replace) apply(d *Document) error {
	if c.Document == nil {
		return errors.NewInvalidRequest("document is required")
	}
	*d = *c.Document.Clone()
	return nil
}

// FindItem locates an item anywhere in the document.
func (d *Document) FindItem(itemID string) (*Item, *Category) {
	for _, cat := range d.Categories {
		if it := cat.Item(itemID); it != nil {
			return it, cat
		}
	}
	return nil, nil
}

func (d *Document) lookupItem(itemID, categoryID string) (*Item, error) {
	cat := d.Category(categoryID)
	if cat == nil {
		return nil, errors.NewCategoryNotFound(categoryID)
	}
	it := cat.Item(itemID)
	if it == nil {
		return nil, errors.NewItemNotFound(itemID, categoryID)
	}
	return it, nil
}
