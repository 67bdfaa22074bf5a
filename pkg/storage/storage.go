package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// FileStorage persists uploaded files and returns the reference stored on the
// owning record (a relative path for local disk, a URL for remote backends).
type FileStorage interface {
	Save(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// UniqueName builds "<unixnano>-<name>" with path separators and spaces removed.
func UniqueName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
}
