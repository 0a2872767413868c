package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded business photos.
type Store interface {
	// Put writes the object under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key.
	URL(key string) string
	// Check verifies the backend is reachable and writable.
	Check(ctx context.Context) error
	Name() string
}

// PhotoKeys returns fresh object keys for a business photo and its thumbnail.
func PhotoKeys(businessID uint, ext string) (original, thumbnail string) {
	id := uuid.New().String()
	dir := fmt.Sprintf("businesses/%d", businessID)
	return path.Join(dir, id+ext), path.Join(dir, id+"_thumb.jpg")
}

// cleanKey rejects keys that could escape the storage root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return k, nil
}

func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
