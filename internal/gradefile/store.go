package gradefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
)

// Extension is the file suffix used for gradebooks.
const Extension = ".csv"

// FileStore keeps gradebooks as <dir>/<name>.csv.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: gradebook directory is empty", common.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: failed to create gradebook directory: %w", common.ErrIO, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the gradebooks.
func (s *FileStore) Dir() string {
	return s.dir
}

// CleanName strips a trailing .csv and rejects names that would escape the
// store directory.
func CleanName(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), Extension)
	if name == "" {
		return "", fmt.Errorf("%w: gradebook name is empty", common.ErrValidation)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: gradebook name %q is not a plain file name", common.ErrValidation, name)
	}
	return name, nil
}

// Path returns the file path for a gradebook name.
func (s *FileStore) Path(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, clean+Extension), nil
}

// Exists reports whether a gradebook with name is already saved.
func (s *FileStore) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
}

// Create writes a new gradebook. An existing file with the same name is left
// untouched and common.ErrConflict is returned unless overwrite is set.
func (s *FileStore) Create(ctx context.Context, name, text string, overwrite bool) error {
	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if exists && !overwrite {
		return fmt.Errorf("%w: gradebook %q already exists", common.ErrConflict, name)
	}
	return s.Write(ctx, name, text)
}

// Write replaces the gradebook's content through a temporary file and rename.
func (s *FileStore) Write(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", common.ErrIO, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			slog.Error("failed to remove temporary file after write error", "error", rmErr)
		}
		return fmt.Errorf("%w: failed to write %s: %w", common.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", rmErr)
		}
		return fmt.Errorf("%w: failed to close %s: %w", common.ErrIO, path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace %s: %w", common.ErrIO, path, err)
	}

	slog.Debug("wrote gradebook", "path", path, "bytes", len(text))
	return nil
}

// ReadText returns the raw content of a gradebook.
func (s *FileStore) ReadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	// #nosec G304 - path is confined to the store directory by CleanName
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: gradebook %q", common.ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", common.ErrIO, path, err)
	}
	return string(data), nil
}

// Read loads and decodes a gradebook.
func (s *FileStore) Read(ctx context.Context, name string) (Gradebook, error) {
	text, err := s.ReadText(ctx, name)
	if err != nil {
		return Gradebook{}, err
	}
	book, err := Decode(text)
	if err != nil {
		return Gradebook{}, fmt.Errorf("gradebook %q: %w", name, err)
	}
	return book, nil
}

// List returns the names of saved gradebooks in alphabetical order.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list gradebooks: %w", common.ErrIO, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}
