package models

import (
	"time"

	"gorm.io/datatypes"
)

type Author struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	Name             string                      `json:"name" gorm:"type:text;not null"`
	Slug             string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Email            string                      `json:"email" gorm:"type:text;not null;uniqueIndex"`
	Bio              *string                     `json:"bio" gorm:"type:text"`
	AvatarURL        *string                     `json:"avatar_url" gorm:"type:text"`
	WebsiteURL       *string                     `json:"website_url" gorm:"type:text"`
	LinkedinURL      *string                     `json:"linkedin_url" gorm:"type:text"`
	TwitterURL       *string                     `json:"twitter_url" gorm:"type:text"`
	Expertise        datatypes.JSONSlice[string] `json:"expertise" gorm:"type:jsonb;not null;default:'[]'"`
	CareerHighlights datatypes.JSONSlice[string] `json:"career_highlights" gorm:"type:jsonb;not null;default:'[]'"`
	SeoNoindex       Flag                        `json:"seo_noindex" gorm:"type:smallint;not null;default:0"`
	SeoNofollow      Flag                        `json:"seo_nofollow" gorm:"type:smallint;not null;default:0"`
	CreatedAt        time.Time                   `json:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt        time.Time                   `json:"updated_at" gorm:"type:timestamptz;not null"`
}

// AuthorWithCounts carries the derived article counters computed at read time.
type AuthorWithCounts struct {
	Author
	ArticleCount          int64 `json:"article_count"`
	PublishedArticleCount int64 `json:"published_article_count"`
}
