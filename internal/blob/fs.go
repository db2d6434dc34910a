package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Store backed by the local file system. Objects are served
// back over HTTP from the same root under the configured base URL.
type FS struct {
	root    string // absolute path to the media directory
	baseURL string // URL prefix objects are served under, e.g. "/media"
}

// NewFS creates an FS store rooted at dir, creating it if needed.
func NewFS(dir, baseURL string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("blob: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root: %w", err)
	}
	return &FS{root: abs, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the absolute media directory, used to mount the file server.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("blob: empty path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("blob: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("blob: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("blob: path escapes media root: %s", rel)
	}
	return abs, nil
}

// Save atomically writes content: tmp file, fsync, rename.
func (f *FS) Save(path string, content io.Reader) (int64, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, fmt.Errorf("blob: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".visper-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("blob: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, content)
	if err != nil {
		return 0, fmt.Errorf("blob: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("blob: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("blob: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return 0, fmt.Errorf("blob: rename: %w", err)
	}
	success = true
	return written, nil
}

// Delete removes the object at path.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("blob: delete %s: %w", path, err)
	}
	return nil
}

// URL returns the serving URL for path.
func (f *FS) URL(path string) string {
	return f.baseURL + "/" + filepath.ToSlash(path)
}
