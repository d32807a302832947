package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "shopping", "items", "categories", "settings"
}

// ShoppingPageData is the template data for the shopping list page.
type ShoppingPageData struct {
	PageData
	Sections []list.Section
	Total    int
}

// ItemsPageData is the template data for the item browser.
type ItemsPageData struct {
	PageData
	Query      string
	Sections   []list.Section
	Total      int
	Categories []list.CategorySummary
}

// CategoriesPageData is the template data for the categories page.
type CategoriesPageData struct {
	PageData
	Categories   []list.CategorySummary
	DefaultColor string
}

// SettingsPageData is the template data for the settings page.
type SettingsPageData struct {
	PageData
	Summary        list.Summary
	ExportFilename string
	Message        string
}

// FormField is a hidden field carried over to the confirmation form.
type FormField struct {
	Name  string
	Value string
}

// ConfirmPageData asks the user to confirm a destructive action.
type ConfirmPageData struct {
	PageData
	Prompt string
	Action string
	Fields []FormField
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"markdown":   renderMarkdown,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"shopping":   "shopping.html",
		"items":      "items.html",
		"categories": "categories.html",
		"settings":   "settings.html",
		"confirm":    "confirm.html",
		"error":      "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
// An unconfirmed destructive action on an HTML request renders the
// confirmation form instead of an error page.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var sErr *errors.SupplyError
	if !stderrors.As(err, &sErr) {
		sErr = errors.NewInternal(err)
	}
	if sErr.Code == errors.ErrInternal {
		log.Printf("web: %s %s: %v", req.Method, req.URL.Path, err)
	}

	status := sErr.Status
	message := sErr.Message

	if wantsJSON(req) {
		errorObj := map[string]any{
			"code":    string(sErr.Code),
			"message": message,
			"status":  status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		renderJSON(w, status, map[string]any{"error": errorObj})
		return
	}

	if sErr.Code == errors.ErrConfirmationRequired {
		prompt, _ := sErr.Details["prompt"].(string)
		r.renderPageStatus(w, status, "confirm", ConfirmPageData{
			PageData: r.page("Confirm", ""),
			Prompt:   prompt,
			Action:   req.URL.Path,
			Fields:   carryFields(req),
		})
		return
	}

	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// carryFields returns the posted form values except confirm, in a stable order.
func carryFields(req *http.Request) []FormField {
	var fields []FormField
	for name, values := range req.PostForm {
		if name == "confirm" {
			continue
		}
		for _, v := range values {
			fields = append(fields, FormField{Name: name, Value: v})
		}
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is not passed through.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a timestamp as "2006-01-02 15:04" UTC.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
