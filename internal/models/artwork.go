package models

import (
	"time"

	"github.com/google/uuid"
)

type Artwork struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ArtistID        uuid.UUID `json:"artistId" gorm:"type:uuid;index;not null"` // foreign key
	Artist          *Artist   `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	Image           string    `json:"image" gorm:"not null"` // normalized filename under the upload root
	CopiesAvailable int       `json:"copiesAvailable" gorm:"not null"`
	Views           int64     `json:"views" gorm:"default:0"`
	Likes           int64     `json:"likes" gorm:"default:0"`
	Tags            []string  `json:"tags" gorm:"serializer:json;type:jsonb"`
	IsActive        bool      `json:"isActive" gorm:"default:true"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
