// Package storage keeps uploaded product images and returns the public URL
// the product record points at.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tienda.shop/app/internal/shared/slug"
)

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// objectName is the stored name for filename: a slug of its stem, a random
// suffix and a known image extension.
func objectName(filename string) string {
	ext := safeExt(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return slug.FromName(stem) + "-" + uuid.NewString() + ext
}
