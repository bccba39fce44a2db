package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/artfolio/internal/api/middleware"
	"github.com/rohits-web03/artfolio/internal/models"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/uploads"
	"github.com/rohits-web03/artfolio/internal/utils"
	"github.com/rohits-web03/artfolio/internal/validation"
)

const defaultSearchLimit = 12

type ArtworkHandler struct {
	artworks repositories.ArtworkStore
	uploads  *uploads.Pipeline
}

func NewArtworkHandler(artworks repositories.ArtworkStore, up *uploads.Pipeline) *ArtworkHandler {
	return &ArtworkHandler{artworks: artworks, uploads: up}
}

// Upload godoc
// @Summary Upload a new artwork
// @Description Stores and normalizes the artwork image, then creates the record owned by the caller.
// @Tags Artworks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param artworkImage formData file true "Artwork image (JPEG, PNG or WebP, max 10MB)"
// @Success 201 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Failure 413 {object} utils.ErrorBody
// @Router /artworks/upload [post]
func (h *ArtworkHandler) Upload(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())

	file, err := h.uploads.Receive(w, r, uploads.SlotArtworkImage)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrNoFile):
			utils.JSONError(w, http.StatusBadRequest, "Artwork image is required.", "IMAGE_REQUIRED")
		case errors.Is(err, uploads.ErrUnsupportedMediaType):
			utils.JSONError(w, http.StatusBadRequest, "Only JPEG, PNG, and WebP images are allowed.", "UNSUPPORTED_MEDIA_TYPE")
		case errors.Is(err, uploads.ErrPayloadTooLarge):
			utils.JSONError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10MB upload limit.", "PAYLOAD_TOO_LARGE")
		default:
			utils.JSONError(w, http.StatusBadRequest, "Invalid file upload form.", "INVALID_UPLOAD")
		}
		return
	}

	// The owner comes from the verified token. A client-supplied artistId
	// is only accepted when it matches.
	if claimed := r.FormValue("artistId"); claimed != "" && claimed != artist.ID.String() {
		file.Discard()
		utils.JSONError(w, http.StatusForbidden, "Access denied. You can only access your own resources.", "ACCESS_DENIED")
		return
	}

	input := validation.ArtworkInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        formTags(r),
	}
	if raw := r.FormValue("copiesAvailable"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			input.CopiesAvailable = &n
		} else {
			file.Discard()
			utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{
				Error:   "Validation failed",
				Details: []validation.FieldError{{Field: "copiesAvailable", Message: "Copies available must be an integer"}},
			})
			return
		}
	}

	input.Normalize()
	if details := validation.Validate(&input); details != nil {
		file.Discard()
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Validation failed", Details: details})
		return
	}

	artwork := models.Artwork{
		ArtistID:        artist.ID,
		Title:           input.Title,
		Description:     input.Description,
		Image:           file.Filename,
		CopiesAvailable: *input.CopiesAvailable,
		Tags:            input.Tags,
		IsActive:        true,
	}
	if err := h.artworks.Create(r.Context(), &artwork); err != nil {
		file.Discard()
		log.Printf("Failed to create artwork for %s: %v", artist.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error uploading artwork.", "UPLOAD_ERROR")
		return
	}

	log.Printf("Artwork uploaded: %s by %s", artwork.ID, artist.ID)
	utils.JSON(w, http.StatusCreated, map[string]any{
		"message": "Artwork uploaded successfully",
		"artwork": artwork,
	})
}

// Search godoc
// @Summary Search the public gallery
// @Tags Artworks
// @Produce json
// @Param q query string false "Match against title and description"
// @Param artist query string false "Match against artist name or surname"
// @Param tags query string false "Comma-separated tag list; any match qualifies"
// @Param sort query string false "newest | oldest | popular | title"
// @Param page query int false "Page number (1-100)"
// @Param limit query int false "Page size (1-50)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Router /artworks/search [get]
func (h *ArtworkHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	input := validation.SearchQuery{
		Q:      strings.TrimSpace(params.Get("q")),
		Artist: strings.TrimSpace(params.Get("artist")),
		Tags:   strings.TrimSpace(params.Get("tags")),
		Sort:   params.Get("sort"),
	}
	for key, dst := range map[string]**int{"page": &input.Page, "limit": &input.Limit} {
		raw := params.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{
				Error:   "Invalid search parameters",
				Details: []validation.FieldError{{Field: key, Message: label(key) + " must be an integer"}},
			})
			return
		}
		*dst = &n
	}

	if details := validation.Validate(&input); details != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid search parameters", Details: details})
		return
	}

	page, limit := 1, defaultSearchLimit
	if input.Page != nil {
		page = *input.Page
	}
	if input.Limit != nil {
		limit = *input.Limit
	}

	query := repositories.ArtworkQuery{
		Query:      input.Q,
		ArtistName: input.Artist,
		Tags:       splitTags(input.Tags),
		Sort:       input.Sort,
		Page:       page,
		Limit:      limit,
	}
	artworks, total, err := h.artworks.Search(r.Context(), query)
	if err != nil {
		log.Printf("Artwork search failed: %v", err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artworks.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"artworks":   artworks,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// PublicList godoc
// @Summary List active artworks
// @Tags Artworks
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]any
// @Router /artworks [get]
func (h *ArtworkHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultSearchLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultSearchLimit
	}

	artworks, total, err := h.artworks.Search(r.Context(), repositories.ArtworkQuery{
		Sort:  repositories.SortNewest,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		log.Printf("Failed to list artworks: %v", err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artworks.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"artworks":   artworks,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// Get godoc
// @Summary Fetch a single artwork
// @Description Increments the view counter unless the caller owns the artwork. Owners also see inactive artworks.
// @Tags Artworks
// @Produce json
// @Param id path string true "Artwork ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} utils.ErrorBody
// @Router /artworks/{id} [get]
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	artwork, err := h.artworks.FindByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Artwork not found.", "ARTWORK_NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to fetch artwork %s: %v", id, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artwork.", "FETCH_ERROR")
		return
	}

	viewer := middleware.ArtistFrom(r.Context())
	isOwner := viewer != nil && viewer.ID == artwork.ArtistID

	if !artwork.IsActive && !isOwner {
		utils.JSONError(w, http.StatusNotFound, "Artwork not found.", "ARTWORK_NOT_FOUND")
		return
	}

	if !isOwner {
		if err := h.artworks.IncrementViews(r.Context(), artwork.ID); err != nil {
			log.Printf("Failed to bump views for %s: %v", artwork.ID, err)
		} else {
			artwork.Views++
		}
	}

	utils.JSON(w, http.StatusOK, map[string]any{"artwork": artwork})
}

// ByArtist godoc
// @Summary List a given artist's active artworks
// @Tags Artworks
// @Produce json
// @Param artistId path string true "Artist ID"
// @Success 200 {object} map[string]any
// @Router /artworks/artist/{artistId} [get]
func (h *ArtworkHandler) ByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathID(w, r, "artistId")
	if !ok {
		return
	}

	artworks, err := h.artworks.ListByArtist(r.Context(), artistID, false)
	if err != nil {
		log.Printf("Failed to list artworks for artist %s: %v", artistID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artworks.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"artworks": artworks})
}

// Mine godoc
// @Summary List the caller's artworks, including inactive ones
// @Tags Artworks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /artworks/my/artworks [get]
func (h *ArtworkHandler) Mine(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())

	artworks, err := h.artworks.ListByArtist(r.Context(), artist.ID, true)
	if err != nil {
		log.Printf("Failed to list artworks for artist %s: %v", artist.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artworks.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"artworks": artworks})
}

// Update godoc
// @Summary Update an owned artwork
// @Tags Artworks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Artwork ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /artworks/{id} [put]
func (h *ArtworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())
	artwork, ok := h.ownedArtwork(w, r, artist)
	if !ok {
		return
	}

	var input validation.ArtworkInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input.", "INVALID_INPUT")
		return
	}

	input.Normalize()
	if details := validation.Validate(&input); details != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Validation failed", Details: details})
		return
	}

	artwork.Title = input.Title
	artwork.Description = input.Description
	artwork.CopiesAvailable = *input.CopiesAvailable
	if input.Tags != nil {
		artwork.Tags = input.Tags
	}
	if input.IsActive != nil {
		artwork.IsActive = *input.IsActive
	}

	if err := h.artworks.Update(r.Context(), artwork); err != nil {
		log.Printf("Failed to update artwork %s: %v", artwork.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "UPDATE_ERROR")
		return
	}

	log.Printf("Artwork updated: %s by %s", artwork.ID, artist.ID)
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Artwork updated successfully",
		"artwork": artwork,
	})
}

// Delete godoc
// @Summary Delete an owned artwork
// @Tags Artworks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Artwork ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /artworks/{id} [delete]
func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())
	artwork, ok := h.ownedArtwork(w, r, artist)
	if !ok {
		return
	}

	if err := h.artworks.Delete(r.Context(), artwork.ID); err != nil {
		log.Printf("Failed to delete artwork %s: %v", artwork.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "DELETE_ERROR")
		return
	}
	if err := h.uploads.Remove(artwork.Image); err != nil {
		log.Printf("Failed to remove image for deleted artwork %s: %v", artwork.ID, err)
	}

	log.Printf("Artwork deleted: %s by %s", artwork.ID, artist.ID)
	utils.JSON(w, http.StatusOK, map[string]any{"message": "Artwork deleted successfully"})
}

// Like godoc
// @Summary Like an artwork
// @Tags Artworks
// @Produce json
// @Param id path string true "Artwork ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} utils.ErrorBody
// @Router /artworks/{id}/like [post]
func (h *ArtworkHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.artworks.IncrementLikes(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Artwork not found.", "ARTWORK_NOT_FOUND")
			return
		}
		log.Printf("Failed to bump likes for %s: %v", id, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "UPDATE_ERROR")
		return
	}

	artwork, err := h.artworks.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Failed to fetch artwork %s after like: %v", id, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artwork.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"artwork": artwork})
}

// ownedArtwork loads the addressed artwork and enforces that the caller is
// its owner, writing the error response itself when not.
func (h *ArtworkHandler) ownedArtwork(w http.ResponseWriter, r *http.Request, artist *models.Artist) (*models.Artwork, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}

	artwork, err := h.artworks.FindByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Artwork not found.", "ARTWORK_NOT_FOUND")
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to fetch artwork %s: %v", id, err)
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching artwork.", "FETCH_ERROR")
		return nil, false
	}

	if artwork.ArtistID != artist.ID {
		utils.JSONError(w, http.StatusForbidden, "Access denied. You can only access your own resources.", "ACCESS_DENIED")
		return nil, false
	}
	return artwork, true
}

func pathID(w http.ResponseWriter, r *http.Request, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(field))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid identifier.", "INVALID_ID")
		return uuid.Nil, false
	}
	return id, true
}

// formTags reads tags either as repeated form fields or as one
// comma-separated value.
func formTags(r *http.Request) []string {
	values := r.Form["tags"]
	if len(values) == 1 {
		values = splitTags(values[0])
	}
	var tags []string
	for _, tag := range values {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// label mirrors the validation package's field labelling for handler-built
// details.
func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
