//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/supply/internal/errors"
)

// openNoFollow opens path without following a symlink in the last component.
// ValidatePath keeps the directory part to a single allowed level.
func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		return nil, openError(path, flag, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}

func openError(path string, flag int, err error) error {
	reading := flag&(os.O_WRONLY|os.O_RDWR) == 0
	switch {
	case stderrors.Is(err, syscall.ELOOP) && reading:
		return errors.NewInvalidRequest("import path is a symlink")
	case stderrors.Is(err, syscall.ELOOP):
		return errors.NewInvalidRequest("export path is a symlink")
	case stderrors.Is(err, syscall.ENOENT) && reading:
		return errors.NewFileNotFound(path)
	}
	return err
}
