package list

import (
	"crypto/rand"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// nonIDChar matches any character that cannot appear in a category id.
var nonIDChar = regexp.MustCompile(`[^a-z0-9]`)

// CategoryID derives a category id from its display name:
// lowercase, then every character outside [a-z0-9] becomes "_".
// Distinct names can collapse to the same id ("A!" and "A?" both give "a_").
func CategoryID(name string) string {
	return nonIDChar.ReplaceAllString(strings.ToLower(name), "_")
}

// NewItemID returns a document-unique item id: a ULID (timestamp plus
// random suffix) behind an "item_" prefix.
func NewItemID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return "item_" + strings.ToLower(id.String()), nil
}

// CleanName trims a user-supplied name. An empty result is invalid.
func CleanName(s string) string {
	return strings.TrimSpace(s)
}
