package auth

import "time"

// AuthToken is the single persisted session token for a user. One row per
// user: issuing a new token replaces the old row, which is what invalidates
// earlier logins.
type AuthToken struct {
	UserID    string    `gorm:"primaryKey" json:"-"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Email          string    `gorm:"not null;uniqueIndex" json:"email"`
	Password       string    `json:"password" gorm:"-"`
	HashedPassword string    `json:"-"`
	Role           string    `gorm:"default:'editor'" json:"role"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (AuthToken) TableName() string { return "app_auth.auth_tokens" }
func (User) TableName() string      { return "app_auth.users" }
