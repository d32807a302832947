package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/db"
	"github.com/hpungsan/supply/internal/errors"
)

// PathCheckMode says whether a path is about to be read (import) or written (export).
type PathCheckMode int

const (
	PathCheckRead PathCheckMode = iota
	PathCheckWrite
)

// ValidatePath vets a user-supplied import or export path. The file must:
//   - have no ".." component and a .json extension (any case)
//   - sit directly in ~/.supply/exports or an absolute allowed_paths entry,
//     unless allow_unsafe_paths is set
//   - not be a symlink, nor have a symlinked parent
//
// Files in subdirectories are refused so that O_NOFOLLOW at open time covers
// the only component left to swap. In read mode the file must also exist.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}
	if !strings.EqualFold(filepath.Ext(abs), ".json") {
		return errors.NewInvalidRequest("path must have .json extension")
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		dirs, err := allowedDirs(cfg)
		if err != nil {
			return err
		}
		parent := filepath.Dir(abs)
		if !slices.Contains(dirs, parent) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", dirs))
		}
		if isSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		return errors.NewInvalidRequest("path must not be a symlink")
	case os.IsNotExist(err) && mode == PathCheckRead:
		return errors.NewFileNotFound(path)
	}
	return nil
}

// allowedDirs lists the export directory plus the absolute allowed_paths
// entries, cleaned, with symlinked entries resolved to their targets.
func allowedDirs(cfg *config.Config) ([]string, error) {
	def, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{def}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	for i, d := range dirs {
		if !isSymlink(d) {
			continue
		}
		resolved, err := filepath.EvalSymlinks(d)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
		}
		dirs[i] = resolved
	}
	return dirs, nil
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DefaultExportsDir returns ~/.supply/exports.
func DefaultExportsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(home, ".supply", db.ExportsDirName), nil
}

// containsTraversal reports whether any component of path, split on either
// separator, is "..".
func containsTraversal(path string) bool {
	split := func(r rune) bool { return r == '/' || r == filepath.Separator }
	return slices.Contains(strings.FieldsFunc(path, split), "..")
}
