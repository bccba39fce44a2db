package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/artfolio/internal/models"
)

// In-memory store implementations backing the handler and middleware tests.
// They mirror the gorm stores' behavior closely enough that handlers cannot
// tell them apart: sentinel errors, pagination, sort orders and the
// active-only search filter all match.

type MemoryArtistStore struct {
	mu      sync.RWMutex
	artists map[uuid.UUID]models.Artist
}

func NewMemoryArtistStore() *MemoryArtistStore {
	return &MemoryArtistStore{artists: make(map[uuid.UUID]models.Artist)}
}

func (s *MemoryArtistStore) Create(_ context.Context, artist *models.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.artists {
		if existing.Email == artist.Email {
			return ErrDuplicateEmail
		}
	}
	if artist.ID == uuid.Nil {
		artist.ID = uuid.New()
	}
	now := time.Now()
	artist.CreatedAt = now
	artist.UpdatedAt = now
	s.artists[artist.ID] = *artist
	return nil
}

func (s *MemoryArtistStore) FindByID(_ context.Context, id uuid.UUID) (*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artist, ok := s.artists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &artist, nil
}

func (s *MemoryArtistStore) FindByEmail(_ context.Context, email string) (*models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, artist := range s.artists {
		if artist.Email == email {
			return &artist, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryArtistStore) Update(_ context.Context, artist *models.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artists[artist.ID]; !ok {
		return ErrNotFound
	}
	artist.UpdatedAt = time.Now()
	s.artists[artist.ID] = *artist
	return nil
}

func (s *MemoryArtistStore) List(_ context.Context, page, limit int) ([]models.Artist, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Artist, 0, len(s.artists))
	for _, artist := range s.artists {
		all = append(all, artist)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}

// Delete removes an artist; used only by tests to simulate stale token
// subjects.
func (s *MemoryArtistStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artists, id)
}

type MemoryArtworkStore struct {
	mu       sync.RWMutex
	artworks map[uuid.UUID]models.Artwork
	artists  *MemoryArtistStore // for artist-name filtering and preloads
}

func NewMemoryArtworkStore(artists *MemoryArtistStore) *MemoryArtworkStore {
	return &MemoryArtworkStore{
		artworks: make(map[uuid.UUID]models.Artwork),
		artists:  artists,
	}
}

func (s *MemoryArtworkStore) Create(_ context.Context, artwork *models.Artwork) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if artwork.ID == uuid.Nil {
		artwork.ID = uuid.New()
	}
	now := time.Now()
	artwork.CreatedAt = now
	artwork.UpdatedAt = now
	s.artworks[artwork.ID] = *artwork
	return nil
}

func (s *MemoryArtworkStore) FindByID(_ context.Context, id uuid.UUID) (*models.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artwork, ok := s.artworks[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.attachArtist(&artwork)
	return &artwork, nil
}

func (s *MemoryArtworkStore) ListByArtist(_ context.Context, artistID uuid.UUID, includeInactive bool) ([]models.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Artwork
	for _, artwork := range s.artworks {
		if artwork.ArtistID != artistID {
			continue
		}
		if !artwork.IsActive && !includeInactive {
			continue
		}
		s.attachArtist(&artwork)
		out = append(out, artwork)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryArtworkStore) Search(_ context.Context, q ArtworkQuery) ([]models.Artwork, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Artwork
	for _, artwork := range s.artworks {
		if !artwork.IsActive || !s.matches(artwork, q) {
			continue
		}
		s.attachArtist(&artwork)
		matched = append(matched, artwork)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch q.Sort {
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortPopular:
			return a.Views > b.Views
		case SortTitle:
			return a.Title < b.Title
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return paginate(matched, q.Page, q.Limit), int64(len(matched)), nil
}

func (s *MemoryArtworkStore) matches(artwork models.Artwork, q ArtworkQuery) bool {
	if q.Query != "" {
		needle := strings.ToLower(q.Query)
		if !strings.Contains(strings.ToLower(artwork.Title), needle) &&
			!strings.Contains(strings.ToLower(artwork.Description), needle) {
			return false
		}
	}
	if q.ArtistName != "" {
		artist, ok := s.artists.artists[artwork.ArtistID]
		if !ok {
			return false
		}
		needle := strings.ToLower(q.ArtistName)
		if !strings.Contains(strings.ToLower(artist.Name), needle) &&
			!strings.Contains(strings.ToLower(artist.Surname), needle) {
			return false
		}
	}
	if len(q.Tags) > 0 {
		found := false
		for _, want := range q.Tags {
			for _, have := range artwork.Tags {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *MemoryArtworkStore) Update(_ context.Context, artwork *models.Artwork) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artworks[artwork.ID]; !ok {
		return ErrNotFound
	}
	artwork.UpdatedAt = time.Now()
	stored := *artwork
	stored.Artist = nil
	s.artworks[artwork.ID] = stored
	return nil
}

func (s *MemoryArtworkStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artworks[id]; !ok {
		return ErrNotFound
	}
	delete(s.artworks, id)
	return nil
}

func (s *MemoryArtworkStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	return s.bump(id, func(a *models.Artwork) { a.Views++ })
}

func (s *MemoryArtworkStore) IncrementLikes(_ context.Context, id uuid.UUID) error {
	return s.bump(id, func(a *models.Artwork) { a.Likes++ })
}

func (s *MemoryArtworkStore) bump(id uuid.UUID, fn func(*models.Artwork)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	artwork, ok := s.artworks[id]
	if !ok {
		return ErrNotFound
	}
	fn(&artwork)
	s.artworks[id] = artwork
	return nil
}

// attachArtist mimics the gorm Preload with public fields only. Caller must
// hold at least a read lock on the artwork store.
func (s *MemoryArtworkStore) attachArtist(artwork *models.Artwork) {
	if s.artists == nil {
		return
	}
	s.artists.mu.RLock()
	defer s.artists.mu.RUnlock()
	if artist, ok := s.artists.artists[artwork.ArtistID]; ok {
		artwork.Artist = &models.Artist{
			ID:           artist.ID,
			Name:         artist.Name,
			Surname:      artist.Surname,
			ProfilePhoto: artist.ProfilePhoto,
		}
	}
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(items)
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
