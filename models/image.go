package models

import "time"

// Image is the metadata row of an uploaded file. Filename is generated server side.
type Image struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Filename     string    `json:"filename" gorm:"type:text;not null;uniqueIndex"`
	OriginalName string    `json:"original_name" gorm:"type:text;not null"`
	MimeType     string    `json:"mime_type" gorm:"type:text;not null"`
	Size         int64     `json:"size" gorm:"not null"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	AltText      *string   `json:"alt_text" gorm:"type:text"`
	URL          string    `json:"url" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:timestamptz;not null"`
}
