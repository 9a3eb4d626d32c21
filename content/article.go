package content

import (
	"slices"
	"strings"
	"time"

	"github.com/rankforge/site-backend/models"
)

// ArticleInput is the body of an article create or update request.
type ArticleInput struct {
	Title            Field[string]     `json:"title"`
	Slug             Field[string]     `json:"slug"`
	Excerpt          Field[string]     `json:"excerpt"`
	Content          Field[string]     `json:"content"`
	FeaturedImage    Field[string]     `json:"featured_image"`
	FeaturedImageAlt Field[string]     `json:"featured_image_alt"`
	MetaTitle        Field[string]     `json:"meta_title"`
	MetaDescription  Field[string]     `json:"meta_description"`
	AuthorID         Field[uint]       `json:"author_id"`
	CategoryID       Field[uint]       `json:"category_id"`
	Status           Field[string]     `json:"status"`
	Tags             Field[StringList] `json:"tags"`
}

func (in ArticleInput) validate(mode Mode) (string, bool, error) {
	v := &Validator{}
	v.requiredText(mode, in.Title, "title", "Title")
	v.requiredText(mode, in.Content, "content", "Content")
	v.requiredID(mode, in.AuthorID, "author_id", "Author")
	v.requiredID(mode, in.CategoryID, "category_id", "Category")
	v.url(in.FeaturedImage, "featured_image", "Featured image URL")
	if in.Status.Set {
		v.Check(ValidArticleStatus(normalizeStatus(in.Status.Value)), "status",
			"Status must be one of: "+strings.Join(models.ArticleStatuses, ", "))
	}
	slug, ok := v.resolveSlug(mode, in.Slug, in.Title)
	return slug, ok, v.Err()
}

func ValidArticleStatus(status string) bool {
	return slices.Contains(models.ArticleStatuses, status)
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Article builds a new row. Status defaults to draft and published_at is stamped when
// the article is created already published.
func (in ArticleInput) Article(now time.Time) (models.Article, error) {
	slug, _, err := in.validate(Create)
	if err != nil {
		return models.Article{}, err
	}
	status := models.StatusDraft
	if in.Status.Present() {
		status = normalizeStatus(in.Status.Value)
	}
	a := models.Article{
		Title:            text(in.Title),
		Slug:             slug,
		Excerpt:          optionalText(in.Excerpt),
		Content:          in.Content.Value,
		FeaturedImage:    optionalText(in.FeaturedImage),
		FeaturedImageAlt: optionalText(in.FeaturedImageAlt),
		MetaTitle:        optionalText(in.MetaTitle),
		MetaDescription:  optionalText(in.MetaDescription),
		AuthorID:         in.AuthorID.Value,
		CategoryID:       in.CategoryID.Value,
		Status:           status,
		Tags:             list(in.Tags),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == models.StatusPublished {
		a.PublishedAt = &now
	}
	return a, nil
}

// Changes returns the column assignments for the keys present in the input. The caller
// stamps published_at since that depends on the stored row.
func (in ArticleInput) Changes(now time.Time) (map[string]any, error) {
	slug, hasSlug, err := in.validate(Update)
	if err != nil {
		return nil, err
	}
	c := changeSet{}
	c.text("title", in.Title)
	if hasSlug {
		c["slug"] = slug
	}
	c.optional("excerpt", in.Excerpt)
	if in.Content.Set {
		c["content"] = in.Content.Value
	}
	c.optional("featured_image", in.FeaturedImage)
	c.optional("featured_image_alt", in.FeaturedImageAlt)
	c.optional("meta_title", in.MetaTitle)
	c.optional("meta_description", in.MetaDescription)
	if in.AuthorID.Set {
		c["author_id"] = in.AuthorID.Value
	}
	if in.CategoryID.Set {
		c["category_id"] = in.CategoryID.Value
	}
	if in.Status.Set {
		c["status"] = normalizeStatus(in.Status.Value)
	}
	c.list("tags", in.Tags)
	return c.touch(now), nil
}
