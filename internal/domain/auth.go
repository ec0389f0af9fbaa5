package domain

import "time"

// Token describes an issued bearer token.
type Token struct {
	Value     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
