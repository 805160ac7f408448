package domain

import "time"

type UserSettings struct {
	Theme          string `json:"theme"`
	Notifications  bool   `json:"notifications"`
	AutoCategorize bool   `json:"auto_categorize"`
}

type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	CreatedAt time.Time    `json:"created_at"`
	Settings  UserSettings `json:"settings"`
}

type Session struct {
	ID           string    `json:"session_id"`
	Token        string    `json:"token"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionGrant is the login/session-creation response.
type SessionGrant struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
