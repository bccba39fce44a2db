package models

import (
	"time"

	"github.com/google/uuid"
)

type Artist struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Surname      string     `json:"surname" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"` // stored lower-cased
	Password     string     `json:"-" gorm:"not null"`
	Address      string     `json:"address" gorm:"not null"`
	ProfilePhoto *string    `json:"profilePhoto"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}
