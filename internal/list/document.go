package list

import "time"

// FormatVersion is the document format written by this version.
const FormatVersion = "2.0"

// DefaultColor is used when a category is created without a color.
const DefaultColor = "#14b8a6"

// Palette is the fixed set of category swatches offered to users.
// Colors outside the palette are accepted (imports are not checked).
var Palette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16", "#22c55e",
	"#14b8a6", "#06b6d4", "#3b82f6", "#8b5cf6", "#a855f7", "#ec4899",
}

// Document is the whole persisted application state.
type Document struct {
	// Version is the format-version tag
	Version string `json:"version"`

	// Categories in storage order; display order is governed by SortOrder
	Categories []*Category `json:"categories"`

	// LastModified is rewritten on every persisted mutation
	LastModified time.Time `json:"lastModified"`
}

// Category is a named, colored grouping that owns its items.
type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	SortOrder int     `json:"sortOrder"`
	Items     []*Item `json:"items"`
}

// Item is an entry owned by exactly one category.
type Item struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Notes            string `json:"notes"`
	IsOnShoppingList bool   `json:"isOnShoppingList"`
}

// Empty returns a document with no categories.
func Empty(now time.Time) *Document {
	return &Document{
		Version:      FormatVersion,
		Categories:   []*Category{},
		LastModified: now.UTC(),
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Version:      d.Version,
		Categories:   make([]*Category, 0, len(d.Categories)),
		LastModified: d.LastModified,
	}
	for _, c := range d.Categories {
		out.Categories = append(out.Categories, c.clone())
	}
	return out
}

func (c *Category) clone() *Category {
	out := *c
	out.Items = make([]*Item, 0, len(c.Items))
	for _, it := range c.Items {
		cp := *it
		out.Items = append(out.Items, &cp)
	}
	return &out
}

// Category returns the category with the given id, or nil.
func (d *Document) Category(id string) *Category {
	for _, c := range d.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// categoryIndex returns the index of the category with the given id, or -1.
func (d *Document) categoryIndex(id string) int {
	for i, c := range d.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Item returns the item with the given id, or nil.
func (c *Category) Item(id string) *Item {
	if i := c.itemIndex(id); i >= 0 {
		return c.Items[i]
	}
	return nil
}

func (c *Category) itemIndex(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// ItemCount returns the number of items across all categories.
func (d *Document) ItemCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Items)
	}
	return n
}

// ShoppingCount returns the number of items flagged for the shopping list.
func (d *Document) ShoppingCount() int {
	n := 0
	for _, c := range d.Categories {
		for _, it := range c.Items {
			if it.IsOnShoppingList {
				n++
			}
		}
	}
	return n
}

// nextSortOrder is one past the highest sort order, or 1 for an empty document.
func (d *Document) nextSortOrder() int {
	if len(d.Categories) == 0 {
		return 1
	}
	max := d.Categories[0].SortOrder
	for _, c := range d.Categories[1:] {
		if c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max + 1
}
