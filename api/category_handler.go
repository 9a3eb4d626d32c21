package api

import (
	"net/http"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder  Responder
	logger     zerolog.Logger
	categories CategoryStore
	articles   ArticleStore
	now        func() time.Time
}

func newCategoryHandler(categories CategoryStore, articles ArticleStore, now func() time.Time) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		categories: categories,
		articles:   articles,
		now:        now,
	}
}

// getAllCategories lists categories with their article counts
// @Summary Get all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/admin/categories [get]
func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return h.responder.Handle("list categories", func(r *http.Request) (Result, error) {
		categories, err := h.categories.FindAll(r.Context())
		if err != nil {
			return Result{}, errs.NewDatabaseError("list", "category", err)
		}
		return OK(categories), nil
	})
}

func (h categoryHandler) getCategory() http.HandlerFunc {
	return h.responder.Handle("get category", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		category, err := h.categories.FindByID(r.Context(), id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("find", "category", err)
		}
		return OK(category), nil
	})
}

// createCategory creates a category, deriving the slug from the name when none is given
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Validation failed or slug already taken"
// @Router /api/admin/categories [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
	return h.responder.Handle("create category", func(r *http.Request) (Result, error) {
		var in content.CategoryInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		category, err := in.Category(h.now())
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if err := content.EnsureUnique(ctx, "category", "slug", category.Slug, 0, h.categories.SlugTaken); err != nil {
			return Result{}, err
		}
		if err := h.categories.Add(ctx, &category); err != nil {
			return Result{}, errs.NewDatabaseError("create", "category", err)
		}

		h.logger.Info().Uint("id", category.ID).Str("slug", category.Slug).Msg("category created")
		return Created(category, "Category created successfully"), nil
	})
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return h.responder.Handle("update category", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.categories.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "category", err)
		}

		var in content.CategoryInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		changes, err := in.Changes(h.now())
		if err != nil {
			return Result{}, err
		}
		if slug, ok := changes["slug"].(string); ok {
			if err := content.EnsureUnique(ctx, "category", "slug", slug, id, h.categories.SlugTaken); err != nil {
				return Result{}, err
			}
		}
		if err := h.categories.Update(ctx, id, changes); err != nil {
			return Result{}, errs.NewDatabaseError("update", "category", err)
		}

		category, err := h.categories.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("reload", "category", err)
		}
		return Updated(category, "Category updated successfully"), nil
	})
}

// deleteCategory deletes a category that no article references
// @Summary Delete a category
// @Tags Categories
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Category still has articles"
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/categories/{id} [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return h.responder.Handle("delete category", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.categories.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "category", err)
		}
		if err := content.EnsureCategoryDeletable(ctx, id, h.articles.CountByCategory); err != nil {
			return Result{}, err
		}
		if err := h.categories.Delete(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("delete", "category", err)
		}

		h.logger.Info().Uint("id", id).Msg("category deleted")
		return Deleted("Category deleted successfully"), nil
	})
}
