package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an author. Username is the stable external identifier used in URLs.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Name        string    `json:"name"`
	Email       string    `json:"-" gorm:"index"`
	Password    string    `json:"-"`                             // bcrypt hash, empty for Firebase-only accounts
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"` // Link to Firebase User UID
	IsAdmin     bool      `json:"-" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserCompact is the author block embedded in feed entries.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Name: u.Name}
}

type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=150,username,unreserved"`
	Name     string `json:"name" form:"name" validate:"omitempty,max=150"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
