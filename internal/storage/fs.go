package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zyaga/clipnote/internal/apperr"
	"github.com/zyaga/clipnote/internal/checksum"
)

// maxNameProbes bounds the collision-suffix loop in WriteUnique so a
// pathological directory cannot spin it forever.
const maxNameProbes = 4096

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the inbox directory
}

// NewFS creates an FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// safePath resolves a relative path against the inbox root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes inbox root: %s", rel)
	}
	return abs, nil
}

// Exists reports whether a file is present at path.
func (f *FS) Exists(path string) bool {
	abs, err := f.safePath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Read returns the raw bytes of an inbox file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".clipnote-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// WriteUnique writes content to "<stem>.md", probing "<stem>_1.md",
// "<stem>_2.md", … until a free name is found. It returns the file name
// used, or apperr.ErrExhausted after maxNameProbes attempts.
func (f *FS) WriteUnique(stem string, content []byte) (string, error) {
	name := stem + ".md"
	for i := 1; f.Exists(name); i++ {
		if i > maxNameProbes {
			return "", fmt.Errorf("storage: unique name for %s: %w", stem, apperr.ErrExhausted)
		}
		name = fmt.Sprintf("%s_%d.md", stem, i)
	}
	if err := f.Write(name, content); err != nil {
		return "", err
	}
	return name, nil
}

// List walks dir (relative to root) and returns metadata for every .md
// file found.
func (f *FS) List(dir string) ([]NoteMeta, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []NoteMeta
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, NoteMeta{
			Path:      rel,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}
