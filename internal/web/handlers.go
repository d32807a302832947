package web

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
	"github.com/hpungsan/supply/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	st       *ops.State
	renderer *Renderer
	now      func() time.Time
}

func newHandlers(st *ops.State, version string) *Handlers {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}
	return &Handlers{
		st:       st,
		renderer: NewRenderer(templateSub, version),
		now:      time.Now,
	}
}

// HandleShopping handles GET /shopping: flagged items grouped by category.
func (h *Handlers) HandleShopping(w http.ResponseWriter, r *http.Request) {
	out := ops.ShoppingList(h.st)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderer.renderPage(w, "shopping", ShoppingPageData{
		PageData: h.renderer.page("Shopping List", "shopping"),
		Sections: out.Sections,
		Total:    out.Total,
	})
}

// HandleShoppingClear handles POST /shopping/clear.
func (h *Handlers) HandleShoppingClear(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.ClearShoppingList(r.Context(), h.st, confirmed(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/shopping", out)
}

// HandleItems handles GET /items?q= : every item, optionally filtered by name.
func (h *Handlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	out := ops.AllItems(h.st, query)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderer.renderPage(w, "items", ItemsPageData{
		PageData:   h.renderer.page("Items", "items"),
		Query:      query,
		Sections:   out.Sections,
		Total:      out.Total,
		Categories: ops.Categories(h.st).Categories,
	})
}

// HandleItemAdd handles POST /items.
func (h *Handlers) HandleItemAdd(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.AddItem(r.Context(), h.st, ops.AddItemInput{
		CategoryID: r.PostFormValue("category_id"),
		Name:       r.PostFormValue("name"),
		Notes:      r.PostFormValue("notes"),
		OnList:     parseBool(r.PostFormValue("on_list")),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/items", out)
}

// HandleItemEdit handles POST /items/{id}/edit. Only posted fields change.
func (h *Handlers) HandleItemEdit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	input := ops.EditItemInput{
		ItemID:             r.PathValue("id"),
		OriginalCategoryID: r.PostFormValue("category_id"),
		Name:               formString(r, "name"),
		Notes:              formString(r, "notes"),
		NewCategoryID:      r.PostFormValue("new_category_id"),
	}
	if v := formString(r, "on_list"); v != nil {
		b := parseBool(*v)
		input.OnList = &b
	}

	out, err := ops.EditItem(r.Context(), h.st, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/items", out)
}

// HandleItemToggle handles POST /items/{id}/toggle.
func (h *Handlers) HandleItemToggle(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.ToggleItem(r.Context(), h.st, itemRef(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/items", out)
}

// HandleItemCheck handles POST /items/{id}/check: removes the item from the shopping list.
func (h *Handlers) HandleItemCheck(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.CheckOffItem(r.Context(), h.st, itemRef(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/shopping", out)
}

// HandleItemDelete handles POST /items/{id}/delete.
func (h *Handlers) HandleItemDelete(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.DeleteItem(r.Context(), h.st, itemRef(r), confirmed(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/items", out)
}

// HandleCategories handles GET /categories.
func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	out := ops.Categories(h.st)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderer.renderPage(w, "categories", CategoriesPageData{
		PageData:     h.renderer.page("Categories", "categories"),
		Categories:   out.Categories,
		DefaultColor: list.DefaultColor,
	})
}

// HandleCategoryAdd handles POST /categories.
func (h *Handlers) HandleCategoryAdd(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	order, err := formInt(r, "sort_order")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	out, err := ops.AddCategory(r.Context(), h.st, ops.AddCategoryInput{
		Name:      r.PostFormValue("name"),
		SortOrder: order,
		Color:     r.PostFormValue("color"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/categories", out)
}

// HandleCategoryEdit handles POST /categories/{id}/edit. Only posted fields change.
func (h *Handlers) HandleCategoryEdit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	order, err := formInt(r, "sort_order")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	out, err := ops.EditCategory(r.Context(), h.st, ops.EditCategoryInput{
		ID:        r.PathValue("id"),
		Name:      formString(r, "name"),
		SortOrder: order,
		Color:     formString(r, "color"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/categories", out)
}

// HandleCategoryDelete handles POST /categories/{id}/delete.
func (h *Handlers) HandleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.DeleteCategory(r.Context(), h.st, ops.DeleteCategoryInput{ID: r.PathValue("id")}, confirmed(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/categories", out)
}

// HandleSettings handles GET /settings: counters plus backup and reset forms.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	summary := ops.Summary(h.st)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, summary)
		return
	}
	h.renderer.renderPage(w, "settings", SettingsPageData{
		PageData:       h.renderer.page("Settings", "settings"),
		Summary:        summary,
		ExportFilename: ops.ExportFilename(h.now()),
		Message:        r.URL.Query().Get("msg"),
	})
}

// HandleExport handles GET /settings/export: downloads the document as JSON.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := ops.ExportDocument(h.st)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ops.ExportFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleImport handles POST /settings/import. The document is taken from a
// multipart "file" field, or from the raw body for JSON clients.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ops.MaxImportBytes+(1<<20))

	raw, err := readImport(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	out, err := ops.ImportDocument(r.Context(), h.st, raw)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	msg := fmt.Sprintf("Imported %d categories and %d items.", out.Categories, out.Items)
	http.Redirect(w, r, "/settings?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// HandleReset handles POST /settings/reset.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	out, err := ops.ResetAllData(r.Context(), h.st, confirmed(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/settings", out)
}

// done finishes a successful mutation: JSON clients get the result,
// browsers are sent back to the page they came from.
func (h *Handlers) done(w http.ResponseWriter, r *http.Request, fallback string, out any) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	http.Redirect(w, r, safeReturn(r.PostFormValue("return"), fallback), http.StatusSeeOther)
}

func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return false
	}
	return true
}

func readImport(r *http.Request) ([]byte, error) {
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.NewInvalidRequest("file is required")
		}
		defer f.Close()
		src = f
	}
	raw, err := io.ReadAll(io.LimitReader(src, ops.MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInvalidRequest("failed to read upload")
	}
	if len(raw) == 0 {
		return nil, errors.NewInvalidRequest("file is required")
	}
	return raw, nil
}

func itemRef(r *http.Request) ops.ItemRef {
	return ops.ItemRef{ItemID: r.PathValue("id"), CategoryID: r.PostFormValue("category_id")}
}

// confirmed reads the confirm form field.
func confirmed(r *http.Request) ops.Confirmer {
	return ops.Confirmed(parseBool(r.PostFormValue("confirm")))
}

// formString returns a pointer to the posted value, or nil if the field was not posted.
func formString(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formInt parses an optional integer field. Blank means absent.
func formInt(r *http.Request, name string) (*int, error) {
	s := strings.TrimSpace(r.PostFormValue(name))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.NewInvalidRequest(name + " must be an integer")
	}
	return &v, nil
}

// parseBool accepts the values HTML checkboxes and JSON clients send.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// safeReturn only allows local absolute paths as redirect targets.
func safeReturn(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n") {
		return fallback
	}
	return target
}
