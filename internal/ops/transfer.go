package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/errors"
	"github.com/hpungsan/supply/internal/list"
)

// MaxImportBytes caps the size of an imported document.
const MaxImportBytes = 10 << 20

// ExportDocument renders the current document as pretty-printed JSON.
func ExportDocument(st *State) ([]byte, error) {
	return list.Marshal(st.Snapshot())
}

// ExportFilename is the default backup name for the given day (UTC).
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("Supply_Backup_%s.json", now.UTC().Format("2006-01-02"))
}

// ImportOutput contains the result of an import.
type ImportOutput struct {
	Categories int `json:"categories"`
	Items      int `json:"items"`
}

// ImportDocument replaces the whole document with raw. Input that is not a
// JSON object with a categories array is rejected with INVALID_FORMAT and
// the current document is left as it was.
func ImportDocument(ctx context.Context, st *State, raw []byte) (*ImportOutput, error) {
	if len(raw) > MaxImportBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import exceeds %d bytes", MaxImportBytes))
	}
	incoming, err := list.Parse(raw)
	if err != nil {
		return nil, err
	}
	doc, err := st.Dispatch(ctx, list.Replace{Document: incoming}, nil)
	if doc == nil {
		return nil, err
	}
	return &ImportOutput{Categories: len(doc.Categories), Items: doc.ItemCount()}, err
}

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.supply/exports/Supply_Backup_YYYY-MM-DD.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Categories int    `json:"categories"`
	Items      int    `json:"items"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the document to a JSON file.
func Export(ctx context.Context, st *State, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, ExportFilename(now))
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	doc := st.Snapshot()
	data, err := list.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	if err := writeFileAtomic(exportPath, data); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Categories: len(doc.Categories),
		Items:      doc.ItemCount(),
		ExportedAt: now.Unix(),
	}, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file survives a failed write.
func writeFileAtomic(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := err.(*errors.SupplyError); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}

	// On Windows, os.Rename fails if the destination exists; keep the old file.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// Import replaces the document with the contents of a JSON export file.
func Import(ctx context.Context, st *State, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openNoFollow(input.Path, os.O_RDONLY, 0)
	if err != nil {
		if _, ok := err.(*errors.SupplyError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	return ImportDocument(ctx, st, raw)
}
