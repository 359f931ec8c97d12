package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files under Dir and returns URLs rooted at URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: "/" + strings.Trim(filepath.ToSlash(dir), "/")}
}

func (l *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	dst := filepath.Join(l.Dir, name)
	f, err := os.Create(dst)
	if err != nil {
		log.Printf("[Storage] Could not create %s: %s\n", dst, err.Error())
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return path.Join(l.URLPrefix, name), nil
}

// Delete removes a file previously returned by Save. Missing files are ignored.
func (l *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.Dir, path.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
