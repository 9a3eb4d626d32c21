package models

import "time"

// DefaultRedirectStatus is applied when a redirection is created without a status code.
const DefaultRedirectStatus = 301

// RedirectStatusCodes are the HTTP statuses a redirection may answer with.
var RedirectStatusCodes = []int{301, 302, 307, 308}

type Redirection struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FromPath   string    `json:"from_path" gorm:"type:text;not null;uniqueIndex"`
	ToPath     string    `json:"to_path" gorm:"type:text;not null"`
	StatusCode int       `json:"status_code" gorm:"not null;default:301"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"type:timestamptz;not null"`
}
