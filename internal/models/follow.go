package models

import "time"

// Follow means User receives Author's posts in the following feed.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_follow_user_author;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_follow_user_author;not null"`
	Author    User      `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
}
