package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/rankforge/site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type articleFixture struct {
	env      *testEnv
	author   models.Author
	category models.Category
}

func newArticleFixture(t *testing.T) articleFixture {
	t.Helper()
	env := newTestEnv(t)
	author := &models.Author{Name: "Jane Doe", Slug: "jane-doe", Email: "jane@example.com"}
	category := &models.Category{Name: "Guides", Slug: "guides"}
	require.NoError(t, memAuthors{env.mem}.Add(t.Context(), author))
	require.NoError(t, memCategories{env.mem}.Add(t.Context(), category))
	return articleFixture{env: env, author: *author, category: *category}
}

func (f articleFixture) create(t *testing.T, body map[string]any) models.Article {
	t.Helper()
	body["author_id"] = f.author.ID
	body["category_id"] = f.category.ID
	rec, res := f.env.call(t, http.MethodPost, "/api/admin/articles", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var article models.Article
	res.decode(t, &article)
	return article
}

func TestCreateArticleDefaults(t *testing.T) {
	f := newArticleFixture(t)

	article := f.create(t, map[string]any{
		"title":   "My Great Title!!",
		"content": "<p>Body</p>",
		"tags":    "not json",
	})
	assert.Equal(t, "my-great-title", article.Slug)
	assert.Equal(t, models.StatusDraft, article.Status)
	assert.Nil(t, article.PublishedAt)
	assert.Empty(t, article.Tags)
	assert.True(t, article.CreatedAt.Equal(testNow))
}

func TestCreateArticleChecksReferences(t *testing.T) {
	f := newArticleFixture(t)

	rec, res := f.env.call(t, http.MethodPost, "/api/admin/articles", map[string]any{
		"title": "Orphan", "content": "x", "author_id": 999, "category_id": f.category.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "author_id", res.Field)

	rec, res = f.env.call(t, http.MethodPost, "/api/admin/articles", map[string]any{
		"title": "Bad status", "content": "x", "author_id": f.author.ID, "category_id": f.category.ID, "status": "live",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status must be one of: draft, published, archived", res.Error)
}

func TestUpdateArticleIsPartial(t *testing.T) {
	f := newArticleFixture(t)
	article := f.create(t, map[string]any{
		"title":   "Technical SEO Checklist",
		"content": "original",
		"excerpt": "short",
		"tags":    []string{"seo", "audit"},
	})

	later := testNow.Add(time.Hour)
	f.env.now = later

	rec, res := f.env.call(t, http.MethodPut, "/api/admin/articles/"+idString(article.ID), map[string]any{
		"content": "rewritten",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Article
	res.decode(t, &updated)
	assert.Equal(t, "rewritten", updated.Content)
	assert.Equal(t, "Technical SEO Checklist", updated.Title)
	assert.Equal(t, "technical-seo-checklist", updated.Slug)
	require.NotNil(t, updated.Excerpt)
	assert.Equal(t, "short", *updated.Excerpt)
	assert.Equal(t, []string{"seo", "audit"}, []string(updated.Tags))
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.True(t, updated.CreatedAt.Equal(testNow))
}

func TestPublishingStampsPublishedAtOnce(t *testing.T) {
	f := newArticleFixture(t)
	article := f.create(t, map[string]any{"title": "Launch", "content": "x"})
	path := "/api/admin/articles/" + idString(article.ID)

	_, res := f.env.call(t, http.MethodPut, path, map[string]any{"status": "Published"})
	var published models.Article
	res.decode(t, &published)
	assert.Equal(t, models.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	first := *published.PublishedAt

	f.env.call(t, http.MethodPut, path, map[string]any{"status": "draft"})
	f.env.now = testNow.Add(2 * time.Hour)
	_, res = f.env.call(t, http.MethodPut, path, map[string]any{"status": "published"})
	var again models.Article
	res.decode(t, &again)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, first.Equal(*again.PublishedAt))
}

func TestListArticlesFilters(t *testing.T) {
	f := newArticleFixture(t)
	f.create(t, map[string]any{"title": "Local SEO", "content": "x", "status": "published", "tags": []string{"local"}})
	f.create(t, map[string]any{"title": "Schema Markup", "content": "x", "tags": []string{"technical"}})
	f.create(t, map[string]any{"title": "Local Citations", "content": "x", "tags": []string{"local"}})

	rec, res := f.env.call(t, http.MethodGet, "/api/admin/articles?tag=local&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))
	var items []models.ArticleListItem
	res.decode(t, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Jane Doe", items[0].AuthorName)
	assert.Equal(t, "Guides", items[0].CategoryName)

	_, res = f.env.call(t, http.MethodGet, "/api/admin/articles?status=published", nil)
	res.decode(t, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Local SEO", items[0].Title)

	rec, _ = f.env.call(t, http.MethodGet, "/api/admin/articles?status=unknown", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteArticle(t *testing.T) {
	f := newArticleFixture(t)
	article := f.create(t, map[string]any{"title": "Gone Soon", "content": "x"})

	rec, _ := f.env.call(t, http.MethodDelete, "/api/admin/articles/"+idString(article.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.env.call(t, http.MethodDelete, "/api/admin/articles/"+idString(article.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
