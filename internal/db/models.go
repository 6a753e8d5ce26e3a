package db

import "time"

// User is a Google account that has signed in.
type User struct {
	ID        string
	Name      string
	Email     string
	Picture   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is a persisted OAuth session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenType    string
	TokenExpiry  *time.Time // nullable
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// SessionWithUser is a session joined with its owner's profile.
type SessionWithUser struct {
	Session
	User User
}
