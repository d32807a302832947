package ops

import (
	"context"

	"github.com/hpungsan/supply/internal/list"
)

// AddCategoryInput contains parameters for AddCategory.
type AddCategoryInput struct {
	Name      string // required, trimmed
	SortOrder *int   // default: one past the current maximum
	Color     string // default: list.DefaultColor
}

// CategoryOutput describes a category after a change.
type CategoryOutput struct {
	Category list.CategorySummary `json:"category"`
}

// AddCategory creates a category whose id is derived from its name.
func AddCategory(ctx context.Context, st *State, input AddCategoryInput) (*CategoryOutput, error) {
	doc, err := st.Dispatch(ctx, list.AddCategory{
		Name:      input.Name,
		SortOrder: input.SortOrder,
		Color:     input.Color,
	}, nil)
	if doc == nil {
		return nil, err
	}
	return categoryOutput(doc, list.CategoryID(list.CleanName(input.Name))), err
}

// EditCategoryInput contains parameters for EditCategory.
// Nil fields are left unchanged.
type EditCategoryInput struct {
	ID        string
	Name      *string
	SortOrder *int
	Color     *string
}

// EditCategory renames, reorders or recolors a category. Its id is kept.
func EditCategory(ctx context.Context, st *State, input EditCategoryInput) (*CategoryOutput, error) {
	doc, err := st.Dispatch(ctx, list.EditCategory{
		ID:        input.ID,
		Name:      input.Name,
		SortOrder: input.SortOrder,
		Color:     input.Color,
	}, nil)
	if doc == nil {
		return nil, err
	}
	return categoryOutput(doc, input.ID), err
}

// DeleteCategoryInput contains parameters for DeleteCategory.
type DeleteCategoryInput struct {
	ID string
}

// DeleteCategoryOutput contains the result of DeleteCategory.
type DeleteCategoryOutput struct {
	ID           string `json:"id"`
	Deleted      bool   `json:"deleted"`
	ItemsRemoved int    `json:"items_removed"`
}

// DeleteCategory removes a category and every item in it. Requires confirmation.
func DeleteCategory(ctx context.Context, st *State, input DeleteCategoryInput, confirm Confirmer) (*DeleteCategoryOutput, error) {
	prev, doc, err := st.commit(ctx, list.DeleteCategory{ID: input.ID}, confirm)
	if doc == nil {
		return nil, err
	}
	removed := 0
	if cat := prev.Category(input.ID); cat != nil {
		removed = len(cat.Items)
	}
	return &DeleteCategoryOutput{ID: input.ID, Deleted: true, ItemsRemoved: removed}, err
}

func categoryOutput(doc *list.Document, id string) *CategoryOutput {
	for _, c := range list.Categories(doc) {
		if c.ID == id {
			return &CategoryOutput{Category: c}
		}
	}
	return &CategoryOutput{Category: list.CategorySummary{ID: id}}
}
