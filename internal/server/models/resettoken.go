package models

import "time"

// ResetToken is a single-use password-reset record. The row is deleted once
// the token is redeemed.
type ResetToken struct {
	ID             string
	UserID         string
	Token          string
	ExpirationDate time.Time
	CreatedAt      time.Time
}
