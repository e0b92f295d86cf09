package models

import "time"

// JobPosting is reference data selectable by lecturer applications.
// Deleting a posting cascades into the applications that reference it.
type JobPosting struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	IsOpen      bool      `db:"is_open" json:"is_open"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
