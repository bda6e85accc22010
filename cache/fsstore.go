package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/citomni/kernel/errors"
)

// FSStore persists artifacts as files in a single cache directory.
// Replacement happens by writing a uniquely named temporary file and
// renaming it onto the canonical name; rename within one directory is
// atomic on POSIX filesystems, so readers never observe partial content.
type FSStore struct {
	dir string
}

// NewFSStore creates a filesystem store rooted at dir, creating the
// directory if needed
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, errors.WrapFatal(errors.ErrCacheWrite, "FSStore", "NewFSStore",
			"cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.WrapFatal(err, "FSStore", "NewFSStore", "create cache directory")
	}
	return &FSStore{dir: dir}, nil
}

// Put writes data to a temporary identity, syncs it, then atomically
// renames it onto the canonical name. Any failure removes the temporary
// file and leaves the previous artifact untouched.
func (s *FSStore) Put(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	canonical := filepath.Join(s.dir, name)
	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return errors.WrapFatal(err, "FSStore", "Put", "create temporary artifact")
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"FSStore", "Put", "write temporary artifact")
	}
	// The swap must be durable before anyone is told about it.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"FSStore", "Put", "sync temporary artifact")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"FSStore", "Put", "close temporary artifact")
	}

	if err := os.Rename(tmp, canonical); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrCacheWrite, err),
			"FSStore", "Put", "swap artifact into place")
	}
	return nil
}

// Get reads the canonical artifact bytes
func (s *FSStore) Get(_ context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, errors.WrapFatal(errors.ErrArtifactNotFound, "FSStore", "Get",
			fmt.Sprintf("no artifact at %s", s.Identity(name)))
	}
	if err != nil {
		return nil, errors.WrapFatal(err, "FSStore", "Get", "read artifact")
	}
	return data, nil
}

// List returns stored artifact names, excluding in-flight temporaries
func (s *FSStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapFatal(err, "FSStore", "List", "read cache directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the canonical artifact; missing artifacts are ignored
func (s *FSStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return errors.WrapFatal(err, "FSStore", "Delete", "remove artifact")
	}
	return nil
}

// Identity returns the canonical file path for an artifact name
func (s *FSStore) Identity(name string) string {
	return filepath.Join(s.dir, name)
}

// checkName rejects artifact names that would escape the cache directory
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return errors.WrapInvalid(errors.ErrCacheWrite, "FSStore", "checkName",
			fmt.Sprintf("invalid artifact name %q", name))
	}
	return nil
}
