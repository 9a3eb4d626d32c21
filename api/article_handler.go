package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/database"
	"github.com/rankforge/site-backend/errs"
	"github.com/rankforge/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultArticlePageSize = 50
	maxArticlePageSize     = 200
)

type articleHandler struct {
	responder  Responder
	logger     zerolog.Logger
	articles   ArticleStore
	authors    AuthorStore
	categories CategoryStore
	now        func() time.Time
}

func newArticleHandler(articles ArticleStore, authors AuthorStore, categories CategoryStore, now func() time.Time) articleHandler {
	logger := log.With().Str("handlerName", "articleHandler").Logger()

	return articleHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		articles:   articles,
		authors:    authors,
		categories: categories,
		now:        now,
	}
}

func articleFilter(r *http.Request) (database.ArticleFilter, error) {
	q := r.URL.Query()
	f := database.ArticleFilter{
		Status: strings.ToLower(strings.TrimSpace(q.Get("status"))),
		Tag:    strings.TrimSpace(q.Get("tag")),
		Search: strings.TrimSpace(q.Get("search")),
		Limit:  queryInt(r, "limit", defaultArticlePageSize, 1, maxArticlePageSize),
		Offset: queryInt(r, "offset", 0, 0, 1<<31-1),
	}
	if f.Status != "" && !content.ValidArticleStatus(f.Status) {
		return f, errs.NewValidationError("status", "Status must be one of: "+strings.Join(models.ArticleStatuses, ", "))
	}
	var err error
	if f.AuthorID, err = queryUint(r, "author_id"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryUint(r, "category_id"); err != nil {
		return f, err
	}
	return f, nil
}

// getAllArticles lists articles with author and category names
// @Summary List articles
// @Description Filters: status, author_id, category_id, tag, search. Paged by limit and offset; the total is sent in X-Total-Count.
// @Tags Articles
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/admin/articles [get]
func (h articleHandler) getAllArticles() http.HandlerFunc {
	return h.responder.Handle("list articles", func(r *http.Request) (Result, error) {
		filter, err := articleFilter(r)
		if err != nil {
			return Result{}, err
		}
		items, total, err := h.articles.FindAll(r.Context(), filter)
		if err != nil {
			return Result{}, errs.NewDatabaseError("list", "article", err)
		}
		res := OK(items)
		res.Header = http.Header{"X-Total-Count": []string{strconv.FormatInt(total, 10)}}
		return res, nil
	})
}

func (h articleHandler) getArticle() http.HandlerFunc {
	return h.responder.Handle("get article", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		article, err := h.articles.FindByID(r.Context(), id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("find", "article", err)
		}
		return OK(article), nil
	})
}

// createArticle creates an article after checking its slug and references
// @Summary Create an article
// @Tags Articles
// @Accept json
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/articles [post]
func (h articleHandler) createArticle() http.HandlerFunc {
	return h.responder.Handle("create article", func(r *http.Request) (Result, error) {
		var in content.ArticleInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		article, err := in.Article(h.now())
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if err := content.EnsureUnique(ctx, "article", "slug", article.Slug, 0, h.articles.SlugTaken); err != nil {
			return Result{}, err
		}
		if err := content.EnsureExists(ctx, "author", "author_id", article.AuthorID, h.authors.Exists); err != nil {
			return Result{}, err
		}
		if err := content.EnsureExists(ctx, "category", "category_id", article.CategoryID, h.categories.Exists); err != nil {
			return Result{}, err
		}
		if err := h.articles.Add(ctx, &article); err != nil {
			return Result{}, errs.NewDatabaseError("create", "article", err)
		}

		h.logger.Info().Uint("id", article.ID).Str("slug", article.Slug).Str("status", article.Status).Msg("article created")
		return Created(article, "Article created successfully"), nil
	})
}

// updateArticle applies a partial update. published_at is stamped the first time the
// article becomes published and kept afterwards.
func (h articleHandler) updateArticle() http.HandlerFunc {
	return h.responder.Handle("update article", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		current, err := h.articles.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("find", "article", err)
		}

		var in content.ArticleInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		now := h.now()
		changes, err := in.Changes(now)
		if err != nil {
			return Result{}, err
		}
		if slug, ok := changes["slug"].(string); ok {
			if err := content.EnsureUnique(ctx, "article", "slug", slug, id, h.articles.SlugTaken); err != nil {
				return Result{}, err
			}
		}
		if authorID, ok := changes["author_id"].(uint); ok {
			if err := content.EnsureExists(ctx, "author", "author_id", authorID, h.authors.Exists); err != nil {
				return Result{}, err
			}
		}
		if categoryID, ok := changes["category_id"].(uint); ok {
			if err := content.EnsureExists(ctx, "category", "category_id", categoryID, h.categories.Exists); err != nil {
				return Result{}, err
			}
		}
		if changes["status"] == models.StatusPublished && current.PublishedAt == nil {
			changes["published_at"] = now
		}
		if err := h.articles.Update(ctx, id, changes); err != nil {
			return Result{}, errs.NewDatabaseError("update", "article", err)
		}

		article, err := h.articles.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("reload", "article", err)
		}
		return Updated(article, "Article updated successfully"), nil
	})
}

func (h articleHandler) deleteArticle() http.HandlerFunc {
	return h.responder.Handle("delete article", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.articles.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "article", err)
		}
		if err := h.articles.Delete(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("delete", "article", err)
		}

		h.logger.Info().Uint("id", id).Msg("article deleted")
		return Deleted("Article deleted successfully"), nil
	})
}
