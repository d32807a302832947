package mcp

import "github.com/mark3labs/mcp-go/mcp"

const confirmDescription = "Must be true to perform this destructive action. Without it the call fails with CONFIRMATION_REQUIRED and the prompt that would be shown to a user."

var categoryAddToolDef = mcp.NewTool("category_add",
	mcp.WithDescription("Create a category. Its id is derived from the name (lowercase, non-alphanumerics replaced by '_'); a name whose id is already taken is rejected with CATEGORY_EXISTS."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Display name, trimmed, must not be empty")),
	mcp.WithNumber("sort_order", mcp.Description("Display position; defaults to one past the current maximum")),
	mcp.WithString("color", mcp.Description("Hex swatch such as #22c55e; defaults to #14b8a6")),
)

var categoryEditToolDef = mcp.NewTool("category_edit",
	mcp.WithDescription("Rename, reorder or recolor a category. Omitted fields are unchanged; the id never changes."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Category id")),
	mcp.WithString("name", mcp.Description("New display name")),
	mcp.WithNumber("sort_order", mcp.Description("New display position")),
	mcp.WithString("color", mcp.Description("New hex swatch")),
)

var categoryDeleteToolDef = mcp.NewTool("category_delete",
	mcp.WithDescription("Delete a category and every item in it."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Category id")),
	mcp.WithBoolean("confirm", mcp.Description(confirmDescription)),
)

var categoryListToolDef = mcp.NewTool("category_list",
	mcp.WithDescription("List categories in display order with item counts."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var itemAddToolDef = mcp.NewTool("item_add",
	mcp.WithDescription("Add an item to a category. Returns the new item with its generated id."),
	mcp.WithString("category_id", mcp.Required(), mcp.Description("Owning category id")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Item name, trimmed, must not be empty")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
	mcp.WithBoolean("on_list", mcp.Description("Put the item on the shopping list")),
)

var itemEditToolDef = mcp.NewTool("item_edit",
	mcp.WithDescription("Edit an item. Omitted fields are unchanged. Setting new_category_id moves the item to the end of that category, keeping its id."),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithString("category_id", mcp.Required(), mcp.Description("Category currently owning the item")),
	mcp.WithString("name", mcp.Description("New name")),
	mcp.WithString("notes", mcp.Description("New notes (empty string clears)")),
	mcp.WithBoolean("on_list", mcp.Description("Shopping list flag")),
	mcp.WithString("new_category_id", mcp.Description("Destination category id")),
)

var itemDeleteToolDef = mcp.NewTool("item_delete",
	mcp.WithDescription("Delete an item."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithString("category_id", mcp.Required(), mcp.Description("Owning category id")),
	mcp.WithBoolean("confirm", mcp.Description(confirmDescription)),
)

var itemToggleToolDef = mcp.NewTool("item_toggle",
	mcp.WithDescription("Flip whether an item is on the shopping list."),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithString("category_id", mcp.Required(), mcp.Description("Owning category id")),
)

var itemSearchToolDef = mcp.NewTool("item_search",
	mcp.WithDescription("List items grouped by category, optionally filtered by a case-insensitive name substring."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query", mcp.Description("Substring to match; empty lists everything")),
)

var shoppingListToolDef = mcp.NewTool("shopping_list",
	mcp.WithDescription("Show the shopping list: flagged items grouped by category in display order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var shoppingCheckToolDef = mcp.NewTool("shopping_check",
	mcp.WithDescription("Check an item off the shopping list. The item itself is kept."),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithString("category_id", mcp.Required(), mcp.Description("Owning category id")),
)

var shoppingClearToolDef = mcp.NewTool("shopping_clear",
	mcp.WithDescription("Take every item off the shopping list."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithBoolean("confirm", mcp.Description(confirmDescription)),
)

var dataSummaryToolDef = mcp.NewTool("data_summary",
	mcp.WithDescription("Counts of categories, items and shopping-list items, plus last-modified time and format version."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dataExportToolDef = mcp.NewTool("data_export",
	mcp.WithDescription("Export the whole list as pretty-printed JSON. Writes to path (default ~/.supply/exports/Supply_Backup_YYYY-MM-DD.json) unless inline is true, in which case the document is returned."),
	mcp.WithString("path", mcp.Description("Destination .json file, directly inside an allowed directory")),
	mcp.WithBoolean("inline", mcp.Description("Return the document instead of writing a file")),
)

var dataImportToolDef = mcp.NewTool("data_import",
	mcp.WithDescription("Replace the whole list with an exported document, read from path or passed as document. Input without a categories array is rejected with INVALID_FORMAT and nothing changes."),
	mcp.WithString("path", mcp.Description("Source .json file")),
	mcp.WithObject("document", mcp.Description("Exported document object")),
)

var dataResetToolDef = mcp.NewTool("data_reset",
	mcp.WithDescription("Delete ALL categories and items."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithBoolean("confirm", mcp.Description(confirmDescription)),
)
