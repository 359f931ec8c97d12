package models

import (
	"foodievent/src/types"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	FirstName    string `gorm:"size:50;not null" json:"first_name"`
	Surname      string `gorm:"size:50;not null" json:"surname"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:10;index" json:"phone"`
	Address      string `gorm:"size:120" json:"address"`
	PasswordHash string `gorm:"not null" json:"-"`

	Orders   []Order   `json:"-"`
	Comments []Comment `json:"-"`

	types.Timestamps
}

func (u User) FullName() string {
	return u.FirstName + " " + u.Surname
}
