package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/shared/slug"
)

const DefaultMaxImageBytes = 5 << 20

var (
	ErrUnsupportedImage = errors.New("storage: unsupported image type")
	ErrImageTooLarge    = errors.New("storage: image too large")
)

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Images validates product image uploads before handing them to a Storage.
type Images struct {
	store    Storage
	maxBytes int64
	log      *slog.Logger
}

func NewImages(store Storage, maxBytes int64, logger *slog.Logger) *Images {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Images{store: store, maxBytes: maxBytes, log: logger}
}

// Upload stores fh under a name derived from productName and returns its key
// and public URL. The type is sniffed from the content, not taken from the
// client.
func (im *Images) Upload(ctx context.Context, fh *multipart.FileHeader, productName string) (PutResult, error) {
	if fh.Size > im.maxBytes {
		return PutResult{}, apperr.InvalidErr("", map[string]string{"image": fmt.Sprintf("La imagen supera %d MB.", im.maxBytes>>20)})
	}
	f, err := fh.Open()
	if err != nil {
		return PutResult{}, apperr.Wrap(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	ctype := http.DetectContentType(head)
	ext, ok := imageExt[ctype]
	if !ok {
		return PutResult{}, &apperr.AppError{
			Kind:   apperr.Invalid,
			Fields: map[string]string{"image": "Formato de imagen no soportado."},
			Err:    ErrUnsupportedImage,
		}
	}

	res, err := im.store.Put(ctx, br, PutInput{Filename: slug.FromName(productName) + ext, ContentType: ctype, Size: fh.Size})
	if err != nil {
		im.log.Error("image_upload_failed", slog.Any("err", err))
		return PutResult{}, apperr.Wrap(fmt.Errorf("store image: %w", err))
	}
	im.log.Info("image_uploaded", slog.String("key", res.Key), slog.Int64("size", fh.Size))
	return res, nil
}

// Discard removes an image whose product write failed.
func (im *Images) Discard(ctx context.Context, key string) {
	if err := im.store.Delete(ctx, key); err != nil {
		im.log.Warn("image_discard_failed", slog.String("key", key), slog.Any("err", err))
	}
}
