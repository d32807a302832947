package mcp

import (
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/ops"
)

// KnownTypes lists the tool name prefixes accepted in disabled_types.
var KnownTypes = []string{"category", "item", "shopping", "data"}

// tools binds every tool definition to its handler on h.
func (h *Handlers) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: categoryAddToolDef, Handler: h.HandleCategoryAdd},
		{Tool: categoryEditToolDef, Handler: h.HandleCategoryEdit},
		{Tool: categoryDeleteToolDef, Handler: h.HandleCategoryDelete},
		{Tool: categoryListToolDef, Handler: h.HandleCategoryList},
		{Tool: itemAddToolDef, Handler: h.HandleItemAdd},
		{Tool: itemEditToolDef, Handler: h.HandleItemEdit},
		{Tool: itemDeleteToolDef, Handler: h.HandleItemDelete},
		{Tool: itemToggleToolDef, Handler: h.HandleItemToggle},
		{Tool: itemSearchToolDef, Handler: h.HandleItemSearch},
		{Tool: shoppingListToolDef, Handler: h.HandleShoppingList},
		{Tool: shoppingCheckToolDef, Handler: h.HandleShoppingCheck},
		{Tool: shoppingClearToolDef, Handler: h.HandleShoppingClear},
		{Tool: dataSummaryToolDef, Handler: h.HandleDataSummary},
		{Tool: dataExportToolDef, Handler: h.HandleDataExport},
		{Tool: dataImportToolDef, Handler: h.HandleDataImport},
		{Tool: dataResetToolDef, Handler: h.HandleDataReset},
	}
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	var names []string
	for _, t := range (&Handlers{}).tools() {
		names = append(names, t.Tool.Name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the entries of names that are not tools.
func ValidateDisabledTools(names []string) []string {
	return unknownNames(names, AllToolNames())
}

// ValidateDisabledTypes returns the entries of names that are not in KnownTypes.
func ValidateDisabledTypes(names []string) []string {
	return unknownNames(names, KnownTypes)
}

func unknownNames(names, known []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool returns the prefix before the first underscore
// ("item_toggle" is of type "item").
func GetTypeForTool(toolName string) string {
	typ, _, found := strings.Cut(toolName, "_")
	if !found || typ == "" {
		return ""
	}
	return typ
}

// enabled reports whether cfg leaves the named tool registered.
func enabled(cfg *config.Config, name string) bool {
	return !slices.Contains(cfg.DisabledTools, name) &&
		!slices.Contains(cfg.DisabledTypes, GetTypeForTool(name))
}

// NewServer creates an MCP server exposing every tool not switched off by
// cfg.DisabledTools or cfg.DisabledTypes.
func NewServer(st *ops.State, cfg *config.Config, version string) *server.MCPServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := server.NewMCPServer("supply", version, server.WithToolCapabilities(true))

	var tools []server.ServerTool
	for _, t := range NewHandlers(st, cfg).tools() {
		if enabled(cfg, t.Tool.Name) {
			tools = append(tools, t)
		}
	}
	if len(tools) > 0 {
		s.AddTools(tools...)
	}
	return s
}

// Run serves the tools over stdio until stdin closes.
func Run(st *ops.State, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(st, cfg, version))
}
