package ops

import (
	"context"

	"github.com/hpungsan/supply/internal/list"
)

// CheckOffItem takes one item off the shopping list. Already-off items stay off.
func CheckOffItem(ctx context.Context, st *State, input ItemRef) (*ItemOutput, error) {
	doc, err := st.Dispatch(ctx, list.CheckOffItem{ItemID: input.ItemID, CategoryID: input.CategoryID}, nil)
	if doc == nil {
		return nil, err
	}
	return itemOutput(doc, input.ItemID), err
}

// ClearShoppingListOutput contains the result of ClearShoppingList.
type ClearShoppingListOutput struct {
	Cleared int `json:"cleared"`
}

// ClearShoppingList takes every item off the shopping list. Requires confirmation.
func ClearShoppingList(ctx context.Context, st *State, confirm Confirmer) (*ClearShoppingListOutput, error) {
	prev, doc, err := st.commit(ctx, list.ClearShoppingList{}, confirm)
	if doc == nil {
		return nil, err
	}
	return &ClearShoppingListOutput{Cleared: prev.ShoppingCount()}, err
}
