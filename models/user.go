package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	Username     string      `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string      `gorm:"not null" json:"-"`
	DateOfBirth  *time.Time  `json:"date_of_birth,omitempty"`
	PhotoURL     string      `json:"photo_url,omitempty"`
	Portfolios   []Portfolio `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
