package models

import "time"

type Category struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"type:text;not null"`
	Slug            string    `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description     *string   `json:"description" gorm:"type:text"`
	MetaTitle       *string   `json:"meta_title" gorm:"type:text"`
	MetaDescription *string   `json:"meta_description" gorm:"type:text"`
	Noindex         Flag      `json:"noindex" gorm:"type:smallint;not null;default:0"`
	Nofollow        Flag      `json:"nofollow" gorm:"type:smallint;not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"type:timestamptz;not null"`
}

type CategoryWithCounts struct {
	Category
	ArticleCount          int64 `json:"article_count"`
	PublishedArticleCount int64 `json:"published_article_count"`
}
