package ops

import (
	"context"

	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

// ItemOutput describes an item and the category that owns it.
type ItemOutput struct {
	CategoryID string    `json:"category_id"`
	Item       list.Item `json:"item"`
}

// AddItemInput contains parameters for AddItem.
type AddItemInput struct {
	CategoryID string // required
	Name       string // required, trimmed
	Notes      string
	OnList     bool
}

// AddItem creates an item in an existing category with a fresh id.
func AddItem(ctx context.Context, st *State, input AddItemInput) (*ItemOutput, error) {
	id, err := list.NewItemID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	doc, err := st.Dispatch(ctx, list.AddItem{
		ID:         id,
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Notes:      input.Notes,
		OnList:     input.OnList,
	}, nil)
	if doc == nil {
		return nil, err
	}
	return itemOutput(doc, id), err
}

// EditItemInput contains parameters for EditItem.
// Nil fields are left unchanged. A NewCategoryID different from
// OriginalCategoryID moves the item to the end of that category.
type EditItemInput struct {
	ItemID             string
	OriginalCategoryID string
	Name               *string
	Notes              *string
	OnList             *bool
	NewCategoryID      string
}

// EditItem updates an item and optionally moves it.
func EditItem(ctx context.Context, st *State, input EditItemInput) (*ItemOutput, error) {
	doc, err := st.Dispatch(ctx, list.EditItem{
		ItemID:             input.ItemID,
		OriginalCategoryID: input.OriginalCategoryID,
		Name:               input.Name,
		Notes:              input.Notes,
		OnList:             input.OnList,
		NewCategoryID:      input.NewCategoryID,
	}, nil)
	if doc == nil {
		return nil, err
	}
	return itemOutput(doc, input.ItemID), err
}

// ItemRef addresses an item within its category.
type ItemRef struct {
	ItemID     string
	CategoryID string
}

// DeleteItemOutput contains the result of DeleteItem.
type DeleteItemOutput struct {
	ItemID     string `json:"item_id"`
	CategoryID string `json:"category_id"`
	Deleted    bool   `json:"deleted"`
}

// DeleteItem removes an item. Requires confirmation.
func DeleteItem(ctx context.Context, st *State, input ItemRef, confirm Confirmer) (*DeleteItemOutput, error) {
	doc, err := st.Dispatch(ctx, list.DeleteItem{ItemID: input.ItemID, CategoryID: input.CategoryID}, confirm)
	if doc == nil {
		return nil, err
	}
	return &DeleteItemOutput{ItemID: input.ItemID, CategoryID: input.CategoryID, Deleted: true}, err
}

// ToggleItem flips whether an item is on the shopping list.
func ToggleItem(ctx context.Context, st *State, input ItemRef) (*ItemOutput, error) {
	doc, err := st.Dispatch(ctx, list.ToggleItem{ItemID: input.ItemID, CategoryID: input.CategoryID}, nil)
	if doc == nil {
		return nil, err
	}
	return itemOutput(doc, input.ItemID), err
}

func itemOutput(doc *list.Document, itemID string) *ItemOutput {
	it, cat := doc.FindItem(itemID)
	if it == nil {
		return &ItemOutput{Item: list.Item{ID: itemID}}
	}
	return &ItemOutput{CategoryID: cat.ID, Item: *it}
}
