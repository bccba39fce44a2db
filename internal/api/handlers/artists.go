package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rohits-web03/artfolio/internal/api/middleware"
	"github.com/rohits-web03/artfolio/internal/auth"
	"github.com/rohits-web03/artfolio/internal/models"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/uploads"
	"github.com/rohits-web03/artfolio/internal/utils"
	"github.com/rohits-web03/artfolio/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type ArtistHandler struct {
	secret  string
	artists repositories.ArtistStore
	uploads *uploads.Pipeline
}

func NewArtistHandler(secret string, artists repositories.ArtistStore, up *uploads.Pipeline) *ArtistHandler {
	return &ArtistHandler{secret: secret, artists: artists, uploads: up}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// receiveOptional runs the upload pipeline for a slot that may be empty.
// A handled response means the caller must return immediately.
func (h *ArtistHandler) receiveOptional(w http.ResponseWriter, r *http.Request, slot string) (*uploads.StoredFile, bool) {
	file, err := h.uploads.Receive(w, r, slot)
	switch {
	case err == nil:
		return file, false
	case errors.Is(err, uploads.ErrNoFile):
		return nil, false
	case errors.Is(err, uploads.ErrUnsupportedMediaType):
		utils.JSONError(w, http.StatusBadRequest, "Only JPEG, PNG, and WebP images are allowed.", "UNSUPPORTED_MEDIA_TYPE")
	case errors.Is(err, uploads.ErrPayloadTooLarge):
		utils.JSONError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10MB upload limit.", "PAYLOAD_TOO_LARGE")
	default:
		utils.JSONError(w, http.StatusBadRequest, "Invalid file upload form.", "INVALID_UPLOAD")
	}
	return nil, true
}

// Register godoc
// @Summary Register a new artist
// @Description Creates an artist account with an optional profile photo and returns a bearer token.
// @Tags Artists
// @Accept json,multipart/form-data
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Router /artists/register [post]
func (h *ArtistHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input validation.RegisterArtist
	var photo *uploads.StoredFile

	if isMultipart(r) {
		var handled bool
		photo, handled = h.receiveOptional(w, r, uploads.SlotProfilePhoto)
		if handled {
			return
		}
		input = validation.RegisterArtist{
			Name:     r.FormValue("name"),
			Surname:  r.FormValue("surname"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Address:  r.FormValue("address"),
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Invalid input.", "INVALID_INPUT")
			return
		}
	}

	input.Normalize()
	if details := validation.Validate(&input); details != nil {
		if photo != nil {
			photo.Discard()
		}
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Validation failed", Details: details})
		return
	}

	if _, err := h.artists.FindByEmail(r.Context(), input.Email); err == nil {
		if photo != nil {
			photo.Discard()
		}
		utils.JSONError(w, http.StatusConflict, "Artist with this email already exists.", "EMAIL_EXISTS")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		log.Printf("Registration lookup failed for %s: %v", input.Email, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during registration.", "REGISTRATION_ERROR")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during registration.", "REGISTRATION_ERROR")
		return
	}

	artist := models.Artist{
		Name:     input.Name,
		Surname:  input.Surname,
		Email:    input.Email,
		Password: string(hashed),
		Address:  input.Address,
	}
	if photo != nil {
		artist.ProfilePhoto = &photo.Filename
	}

	if err := h.artists.Create(r.Context(), &artist); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			// Lost the race against a concurrent registration.
			utils.JSONError(w, http.StatusConflict, "Artist with this email already exists.", "EMAIL_EXISTS")
			return
		}
		log.Printf("Failed to create artist %s: %v", input.Email, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during registration.", "REGISTRATION_ERROR")
		return
	}

	token, err := auth.IssueToken(&artist, h.secret)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", artist.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during registration.", "REGISTRATION_ERROR")
		return
	}

	log.Printf("New artist registered: %s (%s)", artist.ID, artist.Email)
	utils.JSON(w, http.StatusCreated, map[string]any{
		"message": "Artist registered successfully",
		"token":   token,
		"artist":  artist,
	})
}

// Login godoc
// @Summary Log an artist in
// @Description Verifies credentials, stamps the last login and returns a bearer token.
// @Tags Artists
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} utils.ErrorBody
// @Router /artists/login [post]
func (h *ArtistHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input validation.LoginArtist
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

	artist, err := h.artists.FindByEmail(r.Context(), input.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid email or password.", "INVALID_CREDENTIALS")
		return
	}
	if err != nil {
		log.Printf("Login lookup failed for %s: %v", input.Email, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during login.", "LOGIN_ERROR")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(artist.Password), []byte(input.Password)); err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid email or password.", "INVALID_CREDENTIALS")
		return
	}

	now := time.Now()
	artist.LastLogin = &now
	if err := h.artists.Update(r.Context(), artist); err != nil {
		log.Printf("Failed to stamp last login for %s: %v", artist.ID, err)
	}

	token, err := auth.IssueToken(artist, h.secret)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", artist.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error during login.", "LOGIN_ERROR")
		return
	}

	log.Printf("Artist logged in: %s (%s)", artist.ID, artist.Email)
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"artist":  artist,
	})
}

// Profile godoc
// @Summary Get the authenticated artist
// @Tags Artists
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} utils.ErrorBody
// @Router /artists/profile [get]
func (h *ArtistHandler) Profile(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())
	utils.JSON(w, http.StatusOK, map[string]any{"artist": artist})
}

// UpdateProfile godoc
// @Summary Update the authenticated artist's profile
// @Description Partially updates name, surname and address; accepts an optional replacement profile photo.
// @Tags Artists
// @Accept json,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Router /artists/profile [put]
func (h *ArtistHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	artist := middleware.ArtistFrom(r.Context())

	var input validation.UpdateProfile
	var photo *uploads.StoredFile

	if isMultipart(r) {
		var handled bool
		photo, handled = h.receiveOptional(w, r, uploads.SlotProfilePhoto)
		if handled {
			return
		}
		optional := func(field string) *string {
			if v := r.FormValue(field); v != "" {
				return &v
			}
			return nil
		}
		input = validation.UpdateProfile{
			Name:    optional("name"),
			Surname: optional("surname"),
			Address: optional("address"),
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Invalid input.", "INVALID_INPUT")
			return
		}
	}

	input.Normalize()
	if details := validation.Validate(&input); details != nil {
		if photo != nil {
			photo.Discard()
		}
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Validation failed", Details: details})
		return
	}

	if input.Name != nil {
		artist.Name = *input.Name
	}
	if input.Surname != nil {
		artist.Surname = *input.Surname
	}
	if input.Address != nil {
		artist.Address = *input.Address
	}
	if photo != nil {
		if artist.ProfilePhoto != nil {
			if err := h.uploads.Remove(*artist.ProfilePhoto); err != nil {
				log.Printf("Failed to remove old profile photo for %s: %v", artist.ID, err)
			}
		}
		artist.ProfilePhoto = &photo.Filename
	}

	if err := h.artists.Update(r.Context(), artist); err != nil {
		log.Printf("Failed to update profile for %s: %v", artist.ID, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "UPDATE_ERROR")
		return
	}

	log.Printf("Artist profile updated: %s", artist.ID)
	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"artist":  artist,
	})
}

// List godoc
// @Summary List artists
// @Tags Artists
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]any
// @Router /artists [get]
func (h *ArtistHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	artists, total, err := h.artists.List(r.Context(), page, limit)
	if err != nil {
		log.Printf("Failed to list artists: %v", err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"artists":    artists,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// ByEmail godoc
// @Summary Look an artist up by email
// @Description Legacy endpoint kept for backward compatibility.
// @Tags Artists
// @Produce json
// @Param email path string true "Artist email"
// @Success 200 {object} map[string]any
// @Failure 404 {object} utils.ErrorBody
// @Router /artists/by-email/{email} [get]
func (h *ArtistHandler) ByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.PathValue("email")))

	artist, err := h.artists.FindByEmail(r.Context(), email)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Artist not found.", "ARTIST_NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to find artist by email %s: %v", email, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error.", "FETCH_ERROR")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"artist": artist})
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
