package content

import (
	"time"

	"github.com/rankforge/site-backend/models"
)

// CategoryInput is the body of a category create or update request.
type CategoryInput struct {
	Name            Field[string] `json:"name"`
	Slug            Field[string] `json:"slug"`
	Description     Field[string] `json:"description"`
	MetaTitle       Field[string] `json:"meta_title"`
	MetaDescription Field[string] `json:"meta_description"`
	Noindex         Field[Truthy] `json:"noindex"`
	Nofollow        Field[Truthy] `json:"nofollow"`
}

func (in CategoryInput) validate(mode Mode) (string, bool, error) {
	v := &Validator{}
	v.requiredText(mode, in.Name, "name", "Name")
	slug, ok := v.resolveSlug(mode, in.Slug, in.Name)
	return slug, ok, v.Err()
}

// Category builds a new row from the input.
func (in CategoryInput) Category(now time.Time) (models.Category, error) {
	slug, _, err := in.validate(Create)
	if err != nil {
		return models.Category{}, err
	}
	return models.Category{
		Name:            text(in.Name),
		Slug:            slug,
		Description:     optionalText(in.Description),
		MetaTitle:       optionalText(in.MetaTitle),
		MetaDescription: optionalText(in.MetaDescription),
		Noindex:         flag(in.Noindex),
		Nofollow:        flag(in.Nofollow),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Changes returns the column assignments for the keys present in the input.
func (in CategoryInput) Changes(now time.Time) (map[string]any, error) {
	slug, hasSlug, err := in.validate(Update)
	if err != nil {
		return nil, err
	}
	c := changeSet{}
	c.text("name", in.Name)
	if hasSlug {
		c["slug"] = slug
	}
	c.optional("description", in.Description)
	c.optional("meta_title", in.MetaTitle)
	c.optional("meta_description", in.MetaDescription)
	c.flag("noindex", in.Noindex)
	c.flag("nofollow", in.Nofollow)
	return c.touch(now), nil
}
