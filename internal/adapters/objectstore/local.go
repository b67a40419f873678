package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects under a directory served at a URL prefix.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates root if needed.
// POST: objects are written beneath root and addressed as urlPrefix + key
func NewLocal(root, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/"}, nil
}

// Root returns the directory objects live in.
func (l *Local) Root() string {
	return l.root
}

// Put writes r to a temp file then renames it into place.
func (l *Local) Put(_ context.Context, key string, r io.Reader, size int64, _ string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(r, size+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if n != size {
		return fmt.Errorf("write %s: got %d bytes, want %d", key, n, size)
	}
	return os.Rename(tmp.Name(), dst)
}

// Delete removes the file for key.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns urlPrefix + key.
func (l *Local) URL(key string) string {
	return l.urlPrefix + key
}

func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}
