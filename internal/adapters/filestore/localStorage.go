package filestore

import (
	"context"
	"errors"
	"fmt"
	"minisocial/internal/ports/media"
	"os"
	"path/filepath"
	"strings"
)

// PublicPrefix is the URL prefix the upload directory is served under.
const PublicPrefix = "/uploads/"

// LocalStorage keeps uploads in a directory on local disk.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

// Store writes data under filename and returns its public path. filename must
// be a bare file name.
func (s *LocalStorage) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !isBareName(filename) {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	full := filepath.Join(s.dir, filename)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", err
	}
	return PublicPrefix + filename, nil
}

// Delete removes the file behind a public path. Missing files are ignored.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(path, PublicPrefix)
	if name == path || !isBareName(name) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the regular files of the upload directory as public paths.
func (s *LocalStorage) List(ctx context.Context) ([]media.Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	objects := make([]media.Object, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed since ReadDir
			continue
		}
		objects = append(objects, media.Object{Path: PublicPrefix + e.Name(), ModTime: info.ModTime()})
	}
	return objects, nil
}

func isBareName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
