package models

// Group is a community posts may be filed under. Slug is the public identifier.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description string `json:"description"`
}

type CreateGroupRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Slug        string `json:"slug" form:"slug" validate:"required,max=100,slug"`
	Description string `json:"description" form:"description"`
}
