package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/example/almajid/internal/apperrors"
)

// Disk stores objects below a local directory that the HTTP server exposes
// under baseURL.
type Disk struct {
	root    string
	baseURL string
}

// NewDisk creates a Disk provider rooted at root.
func NewDisk(root, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Disk{root: root, baseURL: baseURL}, nil
}

// Root returns the directory objects are stored in.
func (d *Disk) Root() string { return d.root }

func (d *Disk) Upload(ctx context.Context, objectPath string, r io.Reader, _ string) (Object, error) {
	p, err := CleanPath(objectPath)
	if err != nil {
		return Object{}, apperrors.Validation("path", err.Error())
	}
	full := filepath.Join(d.root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, apperrors.Remote("storage", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Object{}, apperrors.Remote("storage", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return Object{}, apperrors.Remote("storage", err)
	}
	if err := f.Close(); err != nil {
		return Object{}, apperrors.Remote("storage", err)
	}

	url, _ := d.PublicURL(p)
	return Object{Path: p, URL: url}, nil
}

func (d *Disk) PublicURL(objectPath string) (string, error) {
	p, err := CleanPath(objectPath)
	if err != nil {
		return "", apperrors.Validation("path", err.Error())
	}
	return d.baseURL + "/" + p, nil
}

func (d *Disk) Remove(_ context.Context, objectPath string) error {
	p, err := CleanPath(objectPath)
	if err != nil {
		return apperrors.Validation("path", err.Error())
	}
	err = os.Remove(filepath.Join(d.root, filepath.FromSlash(p)))
	if errors.Is(err, os.ErrNotExist) {
		return &apperrors.ErrNotFound{Resource: "object", ID: p}
	}
	return apperrors.Remote("storage", err)
}
