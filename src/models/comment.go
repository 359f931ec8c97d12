package models

import (
	"foodievent/src/types"
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Contents    string    `gorm:"size:2000;not null" json:"contents"`
	CommentDate time.Time `json:"comment_date"`
	UserID      uint      `gorm:"index" json:"user_id"`
	EventID     uint      `gorm:"index" json:"event_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}
