// Package storage saves uploaded event images.
package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
)

type FileStore interface {
	// Save writes r under name and returns the reference stored on the event.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Delete removes the file behind a reference returned by Save.
	Delete(ctx context.Context, ref string) error
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
