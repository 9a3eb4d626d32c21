package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ArticleStatuses lists every status an article may hold.
var ArticleStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

// Article is a piece of editorial content. JSON keys match column names.
type Article struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	Title            string                      `json:"title" gorm:"type:text;not null"`
	Slug             string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Excerpt          *string                     `json:"excerpt" gorm:"type:text"`
	Content          string                      `json:"content" gorm:"type:text;not null"`
	FeaturedImage    *string                     `json:"featured_image" gorm:"type:text"`
	FeaturedImageAlt *string                     `json:"featured_image_alt" gorm:"type:text"`
	MetaTitle        *string                     `json:"meta_title" gorm:"type:text"`
	MetaDescription  *string                     `json:"meta_description" gorm:"type:text"`
	AuthorID         uint                        `json:"author_id" gorm:"not null;index"`
	Author           *Author                     `json:"-" gorm:"foreignKey:AuthorID"`
	CategoryID       uint                        `json:"category_id" gorm:"not null;index"`
	Category         *Category                   `json:"-" gorm:"foreignKey:CategoryID"`
	Status           string                      `json:"status" gorm:"type:text;not null;default:draft;index"`
	Tags             datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb;not null;default:'[]'"`
	PublishedAt      *time.Time                  `json:"published_at" gorm:"type:timestamptz"`
	CreatedAt        time.Time                   `json:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt        time.Time                   `json:"updated_at" gorm:"type:timestamptz;not null"`
}

// ArticleListItem is an article joined with the display names of its author and category.
type ArticleListItem struct {
	Article
	AuthorName   string `json:"author_name"`
	CategoryName string `json:"category_name"`
}
