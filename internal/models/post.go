package models

import "time"

// Post is a single entry of a feed. Author and CreatedAt never change after
// creation.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	AuthorID  uint      `json:"-" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"constraint:OnDelete:CASCADE;"`
	GroupID   *uint     `json:"-" gorm:"index"`
	Group     *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL;"`
	Image     string    `json:"image,omitempty"` // media reference, see /media/:id
}

// PostForm is the submitted body of the new/edit post form. The image is
// read separately from the multipart "image" field.
type PostForm struct {
	Text  string `json:"text" form:"text" validate:"required"`
	Group string `json:"group" form:"group" validate:"omitempty,numeric"`
}

// PostDraft is a validated post body waiting to be persisted with an author.
type PostDraft struct {
	Text    string
	GroupID *uint
	Image   string
}

// WithImage returns a copy of the draft pointing at another image.
func (d PostDraft) WithImage(ref string) PostDraft {
	d.Image = ref
	return d
}
