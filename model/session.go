package model

import "time"

// Session is an administrator login. Rows are hard-deleted on logout.
type Session struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SessionToken string    `json:"session_token" gorm:"column:session_token;type:varchar(512);uniqueIndex"`
	Username     string    `json:"username" gorm:"column:username;type:varchar(191)"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	ClientIP     string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
