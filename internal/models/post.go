package models

import (
	"html/template"
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Points    int       `gorm:"default:0" json:"points"` // Denormalized sum of vote values, written only inside vote transactions
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Non-DB fields, filled per request during serialization
	VoteStatus  *int          `gorm:"-" json:"vote_status"`
	Snippet     string        `gorm:"-" json:"snippet,omitempty"`
	ContentHTML template.HTML `gorm:"-" json:"content_html,omitempty"`
}
