// Package models defines the persisted entities of the content graph:
// User, Post, Comment, Reply, and the password-reset token record.
package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
