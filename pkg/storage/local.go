package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type localStorage struct {
	baseDir string
}

// NewLocalStorage stores files under baseDir/<folder>/ and returns paths
// relative to baseDir, e.g. "evidences/1700000000-photo.png".
func NewLocalStorage(baseDir string) (FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(folder, UniqueName(fileName))
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return rel, nil
}

func (s *localStorage) Delete(ctx context.Context, ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve keeps every path inside baseDir.
func (s *localStorage) resolve(rel string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(rel, "\\", "/"))
	if clean == "/" {
		return "", fmt.Errorf("invalid file path %q", rel)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}
