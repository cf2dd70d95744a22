package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/lifemesh/internal/fsutil"
)

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Perm is the file mode of written artifacts.
	Perm os.FileMode
	// Shared stores every artifact directly under the root directory instead
	// of a per-session sub-directory, so a report keeps a stable path across runs.
	Shared bool
}

// FileStore persists artifacts as files below a root directory. Writes are
// atomic: readers never observe a partially written report.
type FileStore struct {
	root string
	opts FileStoreOptions
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string, optFns ...func(o *FileStoreOptions)) *FileStore {
	opts := FileStoreOptions{Perm: 0o644}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FileStore{root: dir, opts: opts}
}

// Root returns the store's root directory.
func (f *FileStore) Root() string { return f.root }

// Path returns the file path an artifact is stored at.
func (f *FileStore) Path(sessionID, artifactID string) (string, error) {
	if err := validateID(artifactID); err != nil {
		return "", err
	}
	return filepath.Join(f.dir(sessionID), artifactID), nil
}

// Save writes data atomically, creating directories as needed.
func (f *FileStore) Save(sessionID, artifactID string, data []byte) error {
	path, err := f.Path(sessionID, artifactID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	if err := fsutil.WriteFile(path, data, f.opts.Perm); err != nil {
		return fmt.Errorf("write artifact %s: %w", artifactID, err)
	}

	return nil
}

// Get reads an artifact or returns ErrNotFound.
func (f *FileStore) Get(sessionID, artifactID string) ([]byte, error) {
	path, err := f.Path(sessionID, artifactID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}

	return data, err
}

// List returns the artifact ids of a session in lexical order.
func (f *FileStore) List(sessionID string) ([]string, error) {
	entries, err := os.ReadDir(f.dir(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// Delete removes an artifact or returns ErrNotFound.
func (f *FileStore) Delete(sessionID, artifactID string) error {
	path, err := f.Path(sessionID, artifactID)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}

	return err
}

func (f *FileStore) dir(sessionID string) string {
	if f.opts.Shared || sessionID == "" {
		return f.root
	}
	return filepath.Join(f.root, filepath.Base(sessionID))
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
