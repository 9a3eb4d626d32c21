// Package storage persists uploaded media. MediaStore validates uploads and names files;
// a Backend puts the bytes somewhere servable.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted upload, inclusive.
const MaxImageSize int64 = 5 * 1024 * 1024

// Backend stores and removes named objects.
type Backend interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (url string, err error)
	// Remove deletes name. A missing object is not an error.
	Remove(ctx context.Context, name string) error
}

// Upload is one incoming file as declared by the client.
type Upload struct {
	Body         io.Reader
	Size         int64
	OriginalName string
	MimeType     string
}

// StoredFile describes a file after it was written.
type StoredFile struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Width        *int
	Height       *int
	URL          string
}

type MediaStore struct {
	backend Backend
}

func NewMediaStore(backend Backend) *MediaStore {
	return &MediaStore{backend: backend}
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
	"image/x-icon":  ".ico",
}

// ValidateUpload checks the size first, then the declared type, before anything is written.
func ValidateUpload(size int64, mimeType string) error {
	if size > MaxImageSize {
		return errs.NewMaxBodySizeExceededError("5MB")
	}
	if size <= 0 {
		return errs.NewValidationError("file", "Uploaded file is empty")
	}
	if !strings.HasPrefix(baseMimeType(mimeType), "image/") {
		return errs.NewValidationError("file", "Invalid file type. Only images are allowed")
	}
	return nil
}

func baseMimeType(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// Store validates the upload, stores it under a generated name and returns its metadata.
// The stored name never derives from client input.
func (s *MediaStore) Store(ctx context.Context, up Upload) (*StoredFile, error) {
	if err := ValidateUpload(up.Size, up.MimeType); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(up.Body, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if err := ValidateUpload(int64(len(body)), up.MimeType); err != nil {
		return nil, err
	}

	mimeType := baseMimeType(up.MimeType)
	filename := uuid.NewString() + extensionFor(mimeType)

	stored := &StoredFile{
		Filename:     filename,
		OriginalName: up.OriginalName,
		MimeType:     mimeType,
		Size:         int64(len(body)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(body)); err == nil {
		stored.Width, stored.Height = &cfg.Width, &cfg.Height
	} else if !errors.Is(err, image.ErrFormat) {
		log.Debug().Err(err).Str("mimeType", mimeType).Msg("could not read image dimensions")
	}

	url, err := s.backend.Put(ctx, filename, body, mimeType)
	if err != nil {
		return nil, errs.FromOutbound("Media storage", err)
	}
	stored.URL = url
	return stored, nil
}

// Remove deletes a stored file by its generated name.
func (s *MediaStore) Remove(ctx context.Context, filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("refusing to remove %q", filename)
	}
	if err := s.backend.Remove(ctx, filename); err != nil {
		return errs.FromOutbound("Media storage", err)
	}
	return nil
}

func extensionFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
