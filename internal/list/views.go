package list

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Section is one category's slice of a view.
type Section struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	SortOrder  int     `json:"sort_order"`
	Count      int     `json:"count"`
	Items      []*Item `json:"items"`
}

// CategorySummary is a category without its items.
type CategorySummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
	ItemCount int    `json:"item_count"`
}

// Summary holds the document-level counters.
type Summary struct {
	Categories    int       `json:"categories"`
	TotalItems    int       `json:"total_items"`
	ShoppingItems int       `json:"shopping_items"`
	LastModified  time.Time `json:"last_modified"`
	Version       string    `json:"version"`
}

// ShoppingList returns the categories that have at least one flagged item,
// in sort order, each holding only its flagged items sorted by name.
func ShoppingList(d *Document) []Section {
	return sections(d, func(it *Item) bool { return it.IsOnShoppingList })
}

// AllItems returns every category with at least one item whose name
// contains query (case-insensitive). An empty query matches everything.
func AllItems(d *Document, query string) []Section {
	q := strings.ToLower(strings.TrimSpace(query))
	return sections(d, func(it *Item) bool {
		return q == "" || strings.Contains(strings.ToLower(it.Name), q)
	})
}

// Categories returns all categories in sort order with their item counts.
func Categories(d *Document) []CategorySummary {
	out := make([]CategorySummary, 0, len(d.Categories))
	for _, c := range sortedCategories(d) {
		out = append(out, CategorySummary{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			SortOrder: c.SortOrder,
			ItemCount: len(c.Items),
		})
	}
	return out
}

// Summarize returns document-level counters.
func Summarize(d *Document) Summary {
	return Summary{
		Categories:    len(d.Categories),
		TotalItems:    d.ItemCount(),
		ShoppingItems: d.ShoppingCount(),
		LastModified:  d.LastModified,
		Version:       d.Version,
	}
}

func sections(d *Document, keep func(*Item) bool) []Section {
	col := collate.New(language.Und, collate.IgnoreCase)
	out := make([]Section, 0)
	for _, c := range sortedCategories(d) {
		var items []*Item
		for _, it := range c.Items {
			if keep(it) {
				cp := *it
				items = append(items, &cp)
			}
		}
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return col.CompareString(items[i].Name, items[j].Name) < 0
		})
		out = append(out, Section{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			SortOrder:  c.SortOrder,
			Count:      len(items),
			Items:      items,
		})
	}
	return out
}

// sortedCategories orders by SortOrder; ties keep storage order.
func sortedCategories(d *Document) []*Category {
	cats := make([]*Category, len(d.Categories))
	copy(cats, d.Categories)
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].SortOrder < cats[j].SortOrder
	})
	return cats
}
