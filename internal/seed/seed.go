// Package seed supplies the initial document used when nothing is stored.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/list"
)

//go:embed data/default.json
var defaultJSON []byte

// maxSeedBytes caps a remote or file seed.
const maxSeedBytes = 10 << 20

// Default returns the bundled starter dataset.
func Default() (*list.Document, error) {
	return list.Parse(defaultJSON)
}

// Load returns the seed document. The source is cfg.SeedPath when set
// (a file path or http(s) URL), otherwise the bundled dataset.
// Any failure is logged and yields an empty document stamped with now;
// Load never fails.
func Load(ctx context.Context, cfg *config.Config, now time.Time) *list.Document {
	doc, err := fetch(ctx, cfg)
	if err != nil {
		log.Printf("seed: %v; starting with an empty list", err)
		return list.Empty(now)
	}
	return doc
}

func fetch(ctx context.Context, cfg *config.Config) (*list.Document, error) {
	src := ""
	if cfg != nil {
		src = strings.TrimSpace(cfg.SeedPath)
	}

	var raw []byte
	var err error
	switch {
	case src == "":
		return Default()
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		raw, err = fetchURL(ctx, src, cfg.SeedTimeout())
	default:
		raw, err = readFile(src)
	}
	if err != nil {
		return nil, err
	}

	doc, err := list.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return doc, nil
}

func fetchURL(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return readLimited(resp.Body, url)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return readLimited(f, path)
}

func readLimited(r io.Reader, src string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if len(data) > maxSeedBytes {
		return nil, fmt.Errorf("%s: seed exceeds %d bytes", src, maxSeedBytes)
	}
	return data, nil
}
