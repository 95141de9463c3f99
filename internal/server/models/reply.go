package models

import "time"

type Reply struct {
	ID        string
	Text      string
	CommentID string
	AuthorID  string
	CreatedAt time.Time
}
