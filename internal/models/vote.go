package models

import (
	"time"
)

// Vote is one user's current vote on one post. The composite primary key
// keeps the one-row-per-(user,post) rule in the storage layer, so a racing
// duplicate insert fails instead of creating a second row.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
