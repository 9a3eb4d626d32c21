package api

import (
	"net/http"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authorHandler struct {
	responder Responder
	logger    zerolog.Logger
	authors   AuthorStore
	articles  ArticleStore
	now       func() time.Time
}

func newAuthorHandler(authors AuthorStore, articles ArticleStore, now func() time.Time) authorHandler {
	logger := log.With().Str("handlerName", "authorHandler").Logger()

	return authorHandler{
		responder: NewResponder(logger),
		logger:    logger,
		authors:   authors,
		articles:  articles,
		now:       now,
	}
}

// getAllAuthors lists authors with their article counts
// @Summary Get all authors
// @Tags Authors
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/admin/authors [get]
func (h authorHandler) getAllAuthors() http.HandlerFunc {
	return h.responder.Handle("list authors", func(r *http.Request) (Result, error) {
		authors, err := h.authors.FindAll(r.Context())
		if err != nil {
			return Result{}, errs.NewDatabaseError("list", "author", err)
		}
		return OK(authors), nil
	})
}

func (h authorHandler) getAuthor() http.HandlerFunc {
	return h.responder.Handle("get author", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		author, err := h.authors.FindByID(r.Context(), id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("find", "author", err)
		}
		return OK(author), nil
	})
}

// createAuthor creates an author. Slug and email must both be unused.
// @Summary Create an author
// @Tags Authors
// @Accept json
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/authors [post]
func (h authorHandler) createAuthor() http.HandlerFunc {
	return h.responder.Handle("create author", func(r *http.Request) (Result, error) {
		var in content.AuthorInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		author, err := in.Author(h.now())
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if err := content.EnsureUnique(ctx, "author", "slug", author.Slug, 0, h.authors.SlugTaken); err != nil {
			return Result{}, err
		}
		if err := content.EnsureUnique(ctx, "author", "email", author.Email, 0, h.authors.EmailTaken); err != nil {
			return Result{}, err
		}
		if err := h.authors.Add(ctx, &author); err != nil {
			return Result{}, errs.NewDatabaseError("create", "author", err)
		}

		h.logger.Info().Uint("id", author.ID).Str("slug", author.Slug).Msg("author created")
		return Created(author, "Author created successfully"), nil
	})
}

// updateAuthor applies a partial update. Uniqueness checks skip the author being updated.
func (h authorHandler) updateAuthor() http.HandlerFunc {
	return h.responder.Handle("update author", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.authors.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "author", err)
		}

		var in content.AuthorInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		changes, err := in.Changes(h.now())
		if err != nil {
			return Result{}, err
		}
		if slug, ok := changes["slug"].(string); ok {
			if err := content.EnsureUnique(ctx, "author", "slug", slug, id, h.authors.SlugTaken); err != nil {
				return Result{}, err
			}
		}
		if email, ok := changes["email"].(string); ok {
			if err := content.EnsureUnique(ctx, "author", "email", email, id, h.authors.EmailTaken); err != nil {
				return Result{}, err
			}
		}
		if err := h.authors.Update(ctx, id, changes); err != nil {
			return Result{}, errs.NewDatabaseError("update", "author", err)
		}

		author, err := h.authors.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("reload", "author", err)
		}
		return Updated(author, "Author updated successfully"), nil
	})
}

// deleteAuthor deletes an author that no article references
// @Summary Delete an author
// @Tags Authors
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Author still has articles"
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/authors/{id} [delete]
func (h authorHandler) deleteAuthor() http.HandlerFunc {
	return h.responder.Handle("delete author", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.authors.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "author", err)
		}
		if err := content.EnsureAuthorDeletable(ctx, id, h.articles.CountByAuthor); err != nil {
			return Result{}, err
		}
		if err := h.authors.Delete(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("delete", "author", err)
		}

		h.logger.Info().Uint("id", id).Msg("author deleted")
		return Deleted("Author deleted successfully"), nil
	})
}
