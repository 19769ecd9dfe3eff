package service

import (
	"context"
	"io"
)

// ImageStore persists uploaded images in blob storage and returns the
// public URL under which each object is served.
type ImageStore interface {
	// Save writes the image under a generated key and returns its public URL.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	// Delete removes a previously stored image by its public URL.
	// Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}
