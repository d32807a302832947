package ops

import (
	"github.com/hpungsan/supply/internal/list"
)

// ShoppingListOutput is the shopping view.
type ShoppingListOutput struct {
	Sections []list.Section `json:"sections"`
	Total    int            `json:"total"`
}

// ShoppingList returns flagged items grouped by category.
func ShoppingList(st *State) *ShoppingListOutput {
	secs := list.ShoppingList(st.Snapshot())
	return &ShoppingListOutput{Sections: secs, Total: countItems(secs)}
}

// AllItemsOutput is the item browser view.
type AllItemsOutput struct {
	Query    string         `json:"query,omitempty"`
	Sections []list.Section `json:"sections"`
	Total    int            `json:"total"`
}

// AllItems returns items whose name contains query, grouped by category.
func AllItems(st *State, query string) *AllItemsOutput {
	secs := list.AllItems(st.Snapshot(), query)
	return &AllItemsOutput{Query: query, Sections: secs, Total: countItems(secs)}
}

// CategoriesOutput lists every category.
type CategoriesOutput struct {
	Categories []list.CategorySummary `json:"categories"`
}

// Categories returns all categories in display order.
func Categories(st *State) *CategoriesOutput {
	return &CategoriesOutput{Categories: list.Categories(st.Snapshot())}
}

// Summary returns document counters.
func Summary(st *State) list.Summary {
	return list.Summarize(st.Snapshot())
}

func countItems(secs []list.Section) int {
	n := 0
	for _, s := range secs {
		n += s.Count
	}
	return n
}
