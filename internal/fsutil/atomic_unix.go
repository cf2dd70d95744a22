//go:build !windows

package fsutil

import (
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
