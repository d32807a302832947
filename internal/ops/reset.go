package ops

import (
	"context"

	"github.com/hpungsan/supply/internal/list"
)

// ResetAllDataOutput contains the result of ResetAllData.
type ResetAllDataOutput struct {
	CategoriesRemoved int `json:"categories_removed"`
	ItemsRemoved      int `json:"items_removed"`
}

// ResetAllData replaces the document with an empty one. Requires confirmation.
func ResetAllData(ctx context.Context, st *State, confirm Confirmer) (*ResetAllDataOutput, error) {
	prev, doc, err := st.commit(ctx, list.Reset{}, confirm)
	if doc == nil {
		return nil, err
	}
	return &ResetAllDataOutput{
		CategoriesRemoved: len(prev.Categories),
		ItemsRemoved:      prev.ItemCount(),
	}, err
}
