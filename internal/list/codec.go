package list

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hpungsan/supply/internal/errors"
)

// Marshal renders the document as pretty-printed JSON (two-space indent),
// the format used for both export files and the web download.
func Marshal(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return append(data, '\n'), nil
}

// docRecord is the lenient import shape of a Document.
// Fields absent from older exports decode as nil and are defaulted in Parse.
type docRecord struct {
	Version      string          `json:"version"`
	Categories   json.RawMessage `json:"categories"`
	LastModified string          `json:"lastModified"`
}

type categoryRecord struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	SortOrder int           `json:"sortOrder"`
	Items     []*itemRecord `json:"items"`
}

type itemRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Notes            string `json:"notes"`
	IsOnShoppingList *bool  `json:"isOnShoppingList"`
}

// Parse decodes an exported or stored document.
// The input must be a JSON object whose "categories" field is an array;
// anything else is rejected with INVALID_FORMAT. Items lacking
// isOnShoppingList are treated as not on the list. A missing version is
// set to FormatVersion; a missing or unreadable lastModified is left zero.
func Parse(raw []byte) (*Document, error) {
	var rec docRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.NewInvalidFormat("not a JSON object: " + err.Error())
	}

	cats := bytes.TrimSpace(rec.Categories)
	if len(cats) == 0 || cats[0] != '[' {
		return nil, errors.NewInvalidFormat("missing categories array")
	}

	var catRecs []*categoryRecord
	if err := json.Unmarshal(cats, &catRecs); err != nil {
		return nil, errors.NewInvalidFormat("categories: " + err.Error())
	}

	doc := &Document{
		Version:    rec.Version,
		Categories: make([]*Category, 0, len(catRecs)),
	}
	if doc.Version == "" {
		doc.Version = FormatVersion
	}
	if rec.LastModified != "" {
		if ts, err := time.Parse(time.RFC3339Nano, rec.LastModified); err == nil {
			doc.LastModified = ts
		}
	}

	for _, cr := range catRecs {
		if cr == nil {
			continue
		}
		cat := &Category{
			ID:        cr.ID,
			Name:      cr.Name,
			Color:     cr.Color,
			SortOrder: cr.SortOrder,
			Items:     make([]*Item, 0, len(cr.Items)),
		}
		for _, ir := range cr.Items {
			if ir == nil {
				continue
			}
			onList := false
			if ir.IsOnShoppingList != nil {
				onList = *ir.IsOnShoppingList
			}
			cat.Items = append(cat.Items, &Item{
				ID:               ir.ID,
				Name:             ir.Name,
				Notes:            ir.Notes,
				IsOnShoppingList: onList,
			})
		}
		doc.Categories = append(doc.Categories, cat)
	}

	return doc, nil
}
