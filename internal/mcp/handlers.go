package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	st  *ops.State
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *ops.State, cfg *config.Config) *Handlers {
	return &Handlers{st: st, cfg: cfg}
}

// Request types for each tool

// CategoryAddRequest represents the arguments for category_add.
type CategoryAddRequest struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CategoryEditRequest represents the arguments for category_edit.
type CategoryEditRequest struct {
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// CategoryDeleteRequest represents the arguments for category_delete.
type CategoryDeleteRequest struct {
	ID      string `json:"id"`
	Confirm bool   `json:"confirm,omitempty"`
}

// ItemAddRequest represents the arguments for item_add.
type ItemAddRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Notes      string `json:"notes,omitempty"`
	OnList     bool   `json:"on_list,omitempty"`
}

// ItemEditRequest represents the arguments for item_edit.
type ItemEditRequest struct {
	ItemID        string  `json:"item_id"`
	CategoryID    string  `json:"category_id"`
	Name          *string `json:"name,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	OnList        *bool   `json:"on_list,omitempty"`
	NewCategoryID string  `json:"new_category_id,omitempty"`
}

// ItemRefRequest addresses one item (item_delete, item_toggle, shopping_check).
type ItemRefRequest struct {
	ItemID     string `json:"item_id"`
	CategoryID string `json:"category_id"`
	Confirm    bool   `json:"confirm,omitempty"`
}

// ItemSearchRequest represents the arguments for item_search.
type ItemSearchRequest struct {
	Query string `json:"query,omitempty"`
}

// ConfirmRequest carries only the confirm flag (shopping_clear, data_reset).
type ConfirmRequest struct {
	Confirm bool `json:"confirm,omitempty"`
}

// ExportRequest represents the arguments for data_export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Inline bool   `json:"inline,omitempty"`
}

// ImportRequest represents the arguments for data_import.
type ImportRequest struct {
	Path     string          `json:"path,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	if args == nil {
		return result, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// Handler implementations

// HandleCategoryAdd handles the category_add tool call.
func (h *Handlers) HandleCategoryAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddCategory(ctx, h.st, ops.AddCategoryInput{
		Name:      input.Name,
		SortOrder: input.SortOrder,
		Color:     input.Color,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCategoryEdit handles the category_edit tool call.
func (h *Handlers) HandleCategoryEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryEditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	result, err := ops.EditCategory(ctx, h.st, ops.EditCategoryInput{
		ID:        input.ID,
		Name:      input.Name,
		SortOrder: input.SortOrder,
		Color:     input.Color,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCategoryDelete handles the category_delete tool call.
func (h *Handlers) HandleCategoryDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteCategory(ctx, h.st, ops.DeleteCategoryInput{ID: input.ID}, ops.Confirmed(input.Confirm))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCategoryList handles the category_list tool call.
func (h *Handlers) HandleCategoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Categories(h.st))
}

// HandleItemAdd handles the item_add tool call.
func (h *Handlers) HandleItemAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddItem(ctx, h.st, ops.AddItemInput{
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Notes:      input.Notes,
		OnList:     input.OnList,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleItemEdit handles the item_edit tool call.
func (h *Handlers) HandleItemEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemEditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.EditItem(ctx, h.st, ops.EditItemInput{
		ItemID:             input.ItemID,
		OriginalCategoryID: input.CategoryID,
		Name:               input.Name,
		Notes:              input.Notes,
		OnList:             input.OnList,
		NewCategoryID:      input.NewCategoryID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleItemDelete handles the item_delete tool call.
func (h *Handlers) HandleItemDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemRefRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteItem(ctx, h.st, ops.ItemRef{ItemID: input.ItemID, CategoryID: input.CategoryID}, ops.Confirmed(input.Confirm))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleItemToggle handles the item_toggle tool call.
func (h *Handlers) HandleItemToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemRefRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ToggleItem(ctx, h.st, ops.ItemRef{ItemID: input.ItemID, CategoryID: input.CategoryID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleItemSearch handles the item_search tool call.
func (h *Handlers) HandleItemSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemSearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(ops.AllItems(h.st, input.Query))
}

// HandleShoppingList handles the shopping_list tool call.
func (h *Handlers) HandleShoppingList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ShoppingList(h.st))
}

// HandleShoppingCheck handles the shopping_check tool call.
func (h *Handlers) HandleShoppingCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ItemRefRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CheckOffItem(ctx, h.st, ops.ItemRef{ItemID: input.ItemID, CategoryID: input.CategoryID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleShoppingClear handles the shopping_clear tool call.
func (h *Handlers) HandleShoppingClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConfirmRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClearShoppingList(ctx, h.st, ops.Confirmed(input.Confirm))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDataSummary handles the data_summary tool call.
func (h *Handlers) HandleDataSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Summary(h.st))
}

// HandleDataExport handles the data_export tool call.
func (h *Handlers) HandleDataExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Inline {
		if input.Path != "" {
			return errorResult(errors.NewInvalidRequest("path and inline are mutually exclusive")), nil
		}
		data, err := ops.ExportDocument(h.st)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	result, err := ops.Export(ctx, h.st, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDataImport handles the data_import tool call.
func (h *Handlers) HandleDataImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	hasDoc := len(input.Document) > 0 && string(input.Document) != "null"
	switch {
	case input.Path != "" && hasDoc:
		return errorResult(errors.NewInvalidRequest("path and document are mutually exclusive")), nil
	case hasDoc:
		result, err := ops.ImportDocument(ctx, h.st, input.Document)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	default:
		result, err := ops.Import(ctx, h.st, h.cfg, ops.ImportInput{Path: input.Path})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}
}

// HandleDataReset handles the data_reset tool call.
func (h *Handlers) HandleDataReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConfirmRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ResetAllData(ctx, h.st, ops.Confirmed(input.Confirm))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var sErr *errors.SupplyError
	if stderrors.As(err, &sErr) {
		msg := sErr.Message
		// keep any context added by wrapping
		if full := err.Error(); full != sErr.Error() {
			msg = strings.TrimSuffix(full, sErr.Error()) + sErr.Message
		}
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": msg,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
