package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rankforge/site-backend/errs"
	"github.com/rankforge/site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestValidatorCollectsAllProblems(t *testing.T) {
	in := decode[AuthorInput](t, `{"email": "not-an-email", "avatar_url": "ftp://x"}`)
	_, err := in.Author(now)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Invalid email format")
	assert.Contains(t, err.Error(), "Avatar URL must be a valid URL")
}

func TestEmailValidation(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.d"))
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestValidURL(t *testing.T) {
	for _, u := range []string{"", "http://x", "https://x.io/a", "/uploads/a.png"} {
		assert.True(t, ValidURL(u), u)
	}
	for _, u := range []string{"x.io", "ftp://x", "javascript:alert(1)"} {
		assert.False(t, ValidURL(u), u)
	}
}

func TestCategoryCreateDerivesSlug(t *testing.T) {
	in := decode[CategoryInput](t, `{"name": "SEO Tips", "noindex": "yes"}`)
	c, err := in.Category(now)
	require.NoError(t, err)
	assert.Equal(t, "seo-tips", c.Slug)
	assert.Equal(t, models.Flag(true), c.Noindex)
	assert.Equal(t, models.Flag(false), c.Nofollow)
	assert.Equal(t, now, c.UpdatedAt)
}

func TestCategoryRejectsUnsluggableName(t *testing.T) {
	in := decode[CategoryInput](t, `{"name": "!!!"}`)
	_, err := in.Category(now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Slug must contain")
}

func TestAuthorCreateNormalizes(t *testing.T) {
	in := decode[AuthorInput](t, `{
		"name": "Ana Lopez",
		"email": "Ana@Example.com",
		"expertise": "[\"Technical SEO\"]",
		"career_highlights": "oops",
		"seo_noindex": 1
	}`)
	a, err := in.Author(now)
	require.NoError(t, err)
	assert.Equal(t, "ana-lopez", a.Slug)
	assert.Equal(t, "ana@example.com", a.Email)
	assert.Equal(t, []string{"Technical SEO"}, []string(a.Expertise))
	assert.Empty(t, a.CareerHighlights)
	assert.NotNil(t, a.CareerHighlights)
	assert.True(t, bool(a.SeoNoindex))
}

func TestArticleChangesOnlyPresentKeys(t *testing.T) {
	in := decode[ArticleInput](t, `{"title": "New title", "excerpt": null}`)
	changes, err := in.Changes(now)
	require.NoError(t, err)

	assert.Equal(t, "New title", changes["title"])
	assert.Contains(t, changes, "excerpt")
	assert.Nil(t, changes["excerpt"])
	assert.Equal(t, now, changes["updated_at"])
	assert.NotContains(t, changes, "slug")
	assert.NotContains(t, changes, "content")
	assert.NotContains(t, changes, "tags")
	assert.Len(t, changes, 3)
}

func TestArticleUpdateRejectsClearingRequired(t *testing.T) {
	in := decode[ArticleInput](t, `{"title": null}`)
	_, err := in.Changes(now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title cannot be empty")
}

func TestArticleCreateDefaults(t *testing.T) {
	in := decode[ArticleInput](t, `{"title": "Hello", "content": "c", "author_id": 1, "category_id": 2}`)
	a, err := in.Article(now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, a.Status)
	assert.Nil(t, a.PublishedAt)
	assert.Equal(t, "hello", a.Slug)

	in = decode[ArticleInput](t, `{"title": "Hello", "content": "c", "author_id": 1, "category_id": 2, "status": "Published"}`)
	a, err = in.Article(now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, a.Status)
	require.NotNil(t, a.PublishedAt)

	in = decode[ArticleInput](t, `{"title": "Hello", "content": "c", "author_id": 1, "category_id": 2, "status": "live"}`)
	_, err = in.Article(now)
	assert.Error(t, err)
}

func TestRedirectionValidation(t *testing.T) {
	r, err := decode[RedirectionInput](t, `{"from_path": "/old", "to_path": "/new"}`).Redirection(now)
	require.NoError(t, err)
	assert.Equal(t, 301, r.StatusCode)

	_, err = decode[RedirectionInput](t, `{"from_path": "old", "to_path": "/new"}`).Redirection(now)
	assert.Error(t, err)

	_, err = decode[RedirectionInput](t, `{"from_path": "/old", "to_path": "new"}`).Redirection(now)
	assert.Error(t, err)

	r, err = decode[RedirectionInput](t, `{"from_path": "/old", "to_path": "https://example.com", "status_code": 308}`).Redirection(now)
	require.NoError(t, err)
	assert.Equal(t, 308, r.StatusCode)

	_, err = decode[RedirectionInput](t, `{"from_path": "/old", "to_path": "/new", "status_code": 303}`).Redirection(now)
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/old-page", NormalizePath("/old-page/"))
	assert.Equal(t, "/old-page", NormalizePath("/old-page"))
	assert.Equal(t, "/", NormalizePath("/"))
	assert.Equal(t, "/", NormalizePath("//"))

	r, err := decode[RedirectionInput](t, `{"from_path": "/blog/", "to_path": "/articles/"}`).Redirection(now)
	require.NoError(t, err)
	assert.Equal(t, "/blog", r.FromPath)
	assert.Equal(t, "/articles/", r.ToPath)

	changes, err := decode[RedirectionInput](t, `{"from_path": "/blog/"}`).Changes(now)
	require.NoError(t, err)
	assert.Equal(t, "/blog", changes["from_path"])
}

func TestImageChanges(t *testing.T) {
	changes := decode[ImageInput](t, `{"alt_text": "  A chart  "}`).Changes()
	assert.Equal(t, "A chart", *changes["alt_text"].(*string))
	assert.Empty(t, decode[ImageInput](t, `{}`).Changes())
}
