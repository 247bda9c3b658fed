// Package storage stores product images with a pluggable object store and
// validates uploads before they reach it.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is a stored blob and the URL it is served from.
type Object struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Provider is an object store.
type Provider interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (Object, error)
	PublicURL(objectPath string) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

// ObjectPath builds "<folder>/products/<yyyymm>/<uuid>.<ext>".
func ObjectPath(folder, ext string, now time.Time) string {
	name := uuid.NewString() + "." + strings.TrimPrefix(ext, ".")
	return path.Join(folder, "products", now.UTC().Format("200601"), name)
}

// CleanPath normalizes an object path and rejects anything that could
// escape the store's root.
func CleanPath(objectPath string) (string, error) {
	p := strings.TrimSpace(objectPath)
	if p == "" {
		return "", fmt.Errorf("empty object path")
	}
	cleaned := path.Clean("/" + p)
	if cleaned == "/" || strings.Contains(p, "..") {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
