package models

import "time"

// Post is owned by exactly one user. AuthorID is set at creation and never
// changes.
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
}
