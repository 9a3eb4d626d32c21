package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rankforge/site-backend/models"
	"github.com/rankforge/site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart framing allowance on top of the file itself
const multipartOverhead = 1 << 20

type imageHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    ImageStore
	media     MediaStorage
	now       func() time.Time
}

func newImageHandler(images ImageStore, media MediaStorage, now func() time.Time) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		images:    images,
		media:     media,
		now:       now,
	}
}

func (h imageHandler) getAllImages() http.HandlerFunc {
	return h.responder.Handle("list images", func(r *http.Request) (Result, error) {
		images, err := h.images.FindAll(r.Context())
		if err != nil {
			return Result{}, errs.NewDatabaseError("list", "image", err)
		}
		return OK(images), nil
	})
}

// uploadImage stores a multipart file and records its metadata
// @Summary Upload an image
// @Description Multipart field "file" (image/*, at most 5MB) and optional "alt_text".
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "No file, wrong type or file too large"
// @Router /api/admin/images [post]
func (h imageHandler) uploadImage() http.HandlerFunc {
	return h.responder.Handle("upload image", func(r *http.Request) (Result, error) {
		if h.media == nil {
			return Result{}, errs.NewServiceNotConfiguredError("Media storage")
		}
		r.Body = http.MaxBytesReader(nil, r.Body, storage.MaxImageSize+multipartOverhead)
		if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return Result{}, errs.NewMaxBodySizeExceededError("5MB")
			}
			return Result{}, errs.NewValidationError("file", "No file provided").WithCause(err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return Result{}, errs.NewValidationError("file", "No file provided")
		}
		defer file.Close()

		ctx := r.Context()
		stored, err := h.media.Store(ctx, storage.Upload{
			Body:         file,
			Size:         header.Size,
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
		})
		if err != nil {
			return Result{}, err
		}

		image := models.Image{
			Filename:     stored.Filename,
			OriginalName: stored.OriginalName,
			MimeType:     stored.MimeType,
			Size:         stored.Size,
			Width:        stored.Width,
			Height:       stored.Height,
			URL:          stored.URL,
			CreatedAt:    h.now(),
		}
		if alt := strings.TrimSpace(r.FormValue("alt_text")); alt != "" {
			image.AltText = &alt
		}
		if err := h.images.Add(ctx, &image); err != nil {
			if rmErr := h.media.Remove(ctx, stored.Filename); rmErr != nil {
				h.logger.Error().Err(rmErr).Str("filename", stored.Filename).Msg("could not remove orphaned upload")
			}
			return Result{}, errs.NewDatabaseError("create", "image", err)
		}

		h.logger.Info().Uint("id", image.ID).Str("filename", image.Filename).Int64("size", image.Size).Msg("image uploaded")
		return Created(image, "Image uploaded successfully"), nil
	})
}

func (h imageHandler) updateImage() http.HandlerFunc {
	return h.responder.Handle("update image", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.images.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "image", err)
		}

		var in content.ImageInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		if changes := in.Changes(); len(changes) > 0 {
			if err := h.images.Update(ctx, id, changes); err != nil {
				return Result{}, errs.NewDatabaseError("update", "image", err)
			}
		}

		image, err := h.images.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("reload", "image", err)
		}
		return Updated(image, "Image updated successfully"), nil
	})
}

// deleteImage removes the row and the stored file together
// @Summary Delete an image
// @Tags Images
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Media storage unavailable, nothing was deleted"
// @Router /api/admin/images/{id} [delete]
func (h imageHandler) deleteImage() http.HandlerFunc {
	return h.responder.Handle("delete image", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		if h.media == nil {
			return Result{}, errs.NewServiceNotConfiguredError("Media storage")
		}
		ctx := r.Context()
		err = h.images.DeleteWith(ctx, id, func(image models.Image) error {
			return h.media.Remove(ctx, image.Filename)
		})
		if err != nil {
			return Result{}, errs.NewDatabaseError("delete", "image", err)
		}

		h.logger.Info().Uint("id", id).Msg("image deleted")
		return Deleted("Image deleted successfully"), nil
	})
}
