package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rohits-web03/artfolio/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Sort keys accepted by Search.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

// ArtworkQuery describes one gallery search: free-text match on title and
// description, artist name match, tag intersection, sort key and page.
type ArtworkQuery struct {
	Query      string
	ArtistName string
	Tags       []string
	Sort       string
	Page       int
	Limit      int
}

type ArtworkStore interface {
	Create(ctx context.Context, artwork *models.Artwork) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, includeInactive bool) ([]models.Artwork, error)
	Search(ctx context.Context, q ArtworkQuery) ([]models.Artwork, int64, error)
	Update(ctx context.Context, artwork *models.Artwork) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) error
}

type GormArtworkStore struct {
	db *gorm.DB
}

func NewGormArtworkStore(db *gorm.DB) *GormArtworkStore {
	return &GormArtworkStore{db: db}
}

// preloadArtist narrows the joined artist record to its public fields.
func preloadArtist(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "surname", "profile_photo")
}

func (s *GormArtworkStore) Create(ctx context.Context, artwork *models.Artwork) error {
	return s.db.WithContext(ctx).Create(artwork).Error
}

func (s *GormArtworkStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	var artwork models.Artwork
	err := s.db.WithContext(ctx).
		Preload("Artist", preloadArtist).
		First(&artwork, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

func (s *GormArtworkStore) ListByArtist(ctx context.Context, artistID uuid.UUID, includeInactive bool) ([]models.Artwork, error) {
	query := s.db.WithContext(ctx).
		Preload("Artist", preloadArtist).
		Where("artist_id = ?", artistID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var artworks []models.Artwork
	err := query.Order("created_at DESC").Find(&artworks).Error
	if err != nil {
		return nil, err
	}
	return artworks, nil
}

// Search runs the public gallery query. Only active artworks are visible.
// The total count and the requested page are fetched concurrently.
func (s *GormArtworkStore) Search(ctx context.Context, q ArtworkQuery) ([]models.Artwork, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Artwork{}).Where("artworks.is_active = ?", true)

	if q.Query != "" {
		like := "%" + q.Query + "%"
		base = base.Where("artworks.title ILIKE ? OR artworks.description ILIKE ?", like, like)
	}
	if q.ArtistName != "" {
		like := "%" + q.ArtistName + "%"
		base = base.
			Joins("JOIN artists ON artists.id = artworks.artist_id").
			Where("artists.name ILIKE ? OR artists.surname ILIKE ?", like, like)
	}
	if len(q.Tags) > 0 {
		// jsonb_exists_any avoids the ?| operator, which collides with the
		// driver placeholder syntax.
		base = base.Where("jsonb_exists_any(artworks.tags, ?)", pq.Array(q.Tags))
	}

	countQuery := base.Session(&gorm.Session{})
	pageQuery := base.Session(&gorm.Session{})

	var (
		total    int64
		artworks []models.Artwork
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return countQuery.WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return pageQuery.WithContext(gctx).
			Order(orderClause(q.Sort)).
			Offset((q.Page - 1) * q.Limit).
			Limit(q.Limit).
			Preload("Artist", preloadArtist).
			Find(&artworks).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return artworks, total, nil
}

func orderClause(sort string) string {
	switch sort {
	case SortOldest:
		return "artworks.created_at ASC"
	case SortPopular:
		return "artworks.views DESC"
	case SortTitle:
		return "artworks.title ASC"
	default: // newest
		return "artworks.created_at DESC"
	}
}

func (s *GormArtworkStore) Update(ctx context.Context, artwork *models.Artwork) error {
	return s.db.WithContext(ctx).Save(artwork).Error
}

func (s *GormArtworkStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Artwork{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormArtworkStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.increment(ctx, id, "views")
}

func (s *GormArtworkStore) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	return s.increment(ctx, id, "likes")
}

// increment bumps a counter with a single UPDATE so concurrent requests
// never under-count.
func (s *GormArtworkStore) increment(ctx context.Context, id uuid.UUID, column string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
