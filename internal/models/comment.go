package models

import "time"

// Comment is a reply to a post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID  uint      `json:"-" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"constraint:OnDelete:CASCADE;"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentForm defines the request body for commenting on a post
type CommentForm struct {
	Text string `json:"text" form:"text" validate:"required,max=2000"`
}
