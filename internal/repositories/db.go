package repositories

import (
	"errors"
	"log"

	"github.com/rohits-web03/artfolio/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Sentinel errors shared by every store implementation so callers never
// depend on gorm error values directly.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

func Connect(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	// Run migrations
	if err := db.AutoMigrate(&models.Artist{}, &models.Artwork{}); err != nil {
		return nil, err
	}
	log.Println("Successfully connected to database")
	return db, nil
}
