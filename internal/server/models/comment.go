package models

import "time"

// Comment references its parent post and its author by id only; the graph
// resolver follows the foreign keys, so there are no back-references here.
type Comment struct {
	ID        string
	Text      string
	PostID    string
	AuthorID  string
	CreatedAt time.Time
}
