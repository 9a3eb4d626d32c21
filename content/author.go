package content

import (
	"time"

	"github.com/rankforge/site-backend/models"
)

// AuthorInput is the body of an author create or update request.
type AuthorInput struct {
	Name             Field[string]     `json:"name"`
	Slug             Field[string]     `json:"slug"`
	Email            Field[string]     `json:"email"`
	Bio              Field[string]     `json:"bio"`
	AvatarURL        Field[string]     `json:"avatar_url"`
	WebsiteURL       Field[string]     `json:"website_url"`
	LinkedinURL      Field[string]     `json:"linkedin_url"`
	TwitterURL       Field[string]     `json:"twitter_url"`
	Expertise        Field[StringList] `json:"expertise"`
	CareerHighlights Field[StringList] `json:"career_highlights"`
	SeoNoindex       Field[Truthy]     `json:"seo_noindex"`
	SeoNofollow      Field[Truthy]     `json:"seo_nofollow"`
}

func (in AuthorInput) validate(mode Mode) (string, bool, error) {
	v := &Validator{}
	v.requiredText(mode, in.Name, "name", "Name")
	v.requiredText(mode, in.Email, "email", "Email")
	if in.Email.Present() && text(in.Email) != "" {
		v.Check(ValidEmail(NormalizeEmail(in.Email.Value)), "email", "Invalid email format")
	}
	v.url(in.AvatarURL, "avatar_url", "Avatar URL")
	v.url(in.WebsiteURL, "website_url", "Website URL")
	v.url(in.LinkedinURL, "linkedin_url", "LinkedIn URL")
	v.url(in.TwitterURL, "twitter_url", "Twitter URL")
	slug, ok := v.resolveSlug(mode, in.Slug, in.Name)
	return slug, ok, v.Err()
}

func (in AuthorInput) Author(now time.Time) (models.Author, error) {
	slug, _, err := in.validate(Create)
	if err != nil {
		return models.Author{}, err
	}
	return models.Author{
		Name:             text(in.Name),
		Slug:             slug,
		Email:            NormalizeEmail(in.Email.Value),
		Bio:              optionalText(in.Bio),
		AvatarURL:        optionalText(in.AvatarURL),
		WebsiteURL:       optionalText(in.WebsiteURL),
		LinkedinURL:      optionalText(in.LinkedinURL),
		TwitterURL:       optionalText(in.TwitterURL),
		Expertise:        list(in.Expertise),
		CareerHighlights: list(in.CareerHighlights),
		SeoNoindex:       flag(in.SeoNoindex),
		SeoNofollow:      flag(in.SeoNofollow),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (in AuthorInput) Changes(now time.Time) (map[string]any, error) {
	slug, hasSlug, err := in.validate(Update)
	if err != nil {
		return nil, err
	}
	c := changeSet{}
	c.text("name", in.Name)
	if hasSlug {
		c["slug"] = slug
	}
	if in.Email.Set {
		c["email"] = NormalizeEmail(in.Email.Value)
	}
	c.optional("bio", in.Bio)
	c.optional("avatar_url", in.AvatarURL)
	c.optional("website_url", in.WebsiteURL)
	c.optional("linkedin_url", in.LinkedinURL)
	c.optional("twitter_url", in.TwitterURL)
	c.list("expertise", in.Expertise)
	c.list("career_highlights", in.CareerHighlights)
	c.flag("seo_noindex", in.SeoNoindex)
	c.flag("seo_nofollow", in.SeoNofollow)
	return c.touch(now), nil
}
