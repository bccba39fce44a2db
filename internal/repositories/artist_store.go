package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rohits-web03/artfolio/internal/models"
	"gorm.io/gorm"
)

type ArtistStore interface {
	Create(ctx context.Context, artist *models.Artist) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	FindByEmail(ctx context.Context, email string) (*models.Artist, error)
	Update(ctx context.Context, artist *models.Artist) error
	List(ctx context.Context, page, limit int) ([]models.Artist, int64, error)
}

type GormArtistStore struct {
	db *gorm.DB
}

func NewGormArtistStore(db *gorm.DB) *GormArtistStore {
	return &GormArtistStore{db: db}
}

func (s *GormArtistStore) Create(ctx context.Context, artist *models.Artist) error {
	err := s.db.WithContext(ctx).Create(artist).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *GormArtistStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.WithContext(ctx).First(&artist, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (s *GormArtistStore) FindByEmail(ctx context.Context, email string) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.WithContext(ctx).First(&artist, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (s *GormArtistStore) Update(ctx context.Context, artist *models.Artist) error {
	err := s.db.WithContext(ctx).Save(artist).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// List returns one page of artists, newest first, plus the total count.
func (s *GormArtistStore) List(ctx context.Context, page, limit int) ([]models.Artist, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Artist{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var artists []models.Artist
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&artists).Error
	if err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}
