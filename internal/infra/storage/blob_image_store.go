// Package storage provides blob-backed image storage for product and
// profile pictures. The bucket is opened by URL, so local development
// (file://) and production (s3://, gs://) use the same code path.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"voltcart/config"
	"voltcart/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"
)

type blobImageStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// Params holds dependencies for the image store, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobImageStore opens the configured bucket and returns an ImageStore
func NewBlobImageStore(params Params) (service.ImageStore, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("storage bucket URL is required")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("Blob image store initialized",
		slog.String("bucket_url", cfg.BucketURL),
	)

	return &blobImageStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        params.Logger,
	}, nil
}

// Save writes the image under a unique key and returns its public URL.
// The original filename only contributes its extension; the key itself
// is a UUID so uploads can never collide or overwrite each other.
func (s *blobImageStore) Save(ctx context.Context, filename string, contentType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), sanitizeExt(filename))

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.WithStack(err)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return "", errors.WithStack(err)
	}
	if err := w.Close(); err != nil {
		return "", errors.WithStack(err)
	}

	s.logger.Debug("Image stored",
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes a previously stored image by its public URL. Unknown
// URLs are ignored so callers can delete optimistically.
func (s *blobImageStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicBaseURL+"/")
	if !ok {
		s.logger.Warn("Skipping delete of foreign image URL", slog.String("url", url))

		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// sanitizeExt keeps only a short, lowercase extension from the original
// upload name
func sanitizeExt(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 8 {
		return ""
	}
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}

	return ext
}
