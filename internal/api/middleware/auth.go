package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/artfolio/internal/auth"
	"github.com/rohits-web03/artfolio/internal/models"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/utils"
)

type contextKey string

const artistKey contextKey = "artist"

// ArtistFrom returns the authenticated artist attached by RequireAuth or
// OptionalAuth, or nil for anonymous requests.
func ArtistFrom(ctx context.Context) *models.Artist {
	artist, _ := ctx.Value(artistKey).(*models.Artist)
	return artist
}

type Auth struct {
	secret  string
	artists repositories.ArtistStore
}

func NewAuth(secret string, artists repositories.ArtistStore) *Auth {
	return &Auth{secret: secret, artists: artists}
}

// resolve verifies the bearer token and loads its subject. The returned
// error is always one of the auth package sentinels (possibly wrapped).
func (a *Auth) resolve(r *http.Request) (*models.Artist, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, auth.ErrNoToken
	}

	claims, err := auth.ParseToken(parts[1], a.secret)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	artist, err := a.artists.FindByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		// A token whose subject vanished is treated as invalid.
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInternal, err)
	}
	return artist, nil
}

// RequireAuth rejects the request unless it carries a valid bearer token
// whose subject still exists.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		artist, err := a.resolve(r)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrNoToken):
				utils.JSONError(w, http.StatusUnauthorized, "Access denied. No token provided.", "NO_TOKEN")
			case errors.Is(err, auth.ErrTokenExpired):
				utils.JSONError(w, http.StatusUnauthorized, "Token expired.", "TOKEN_EXPIRED")
			case errors.Is(err, auth.ErrInvalidToken):
				utils.JSONError(w, http.StatusUnauthorized, "Invalid token.", "INVALID_TOKEN")
			default:
				log.Printf("Auth middleware error on %s %s: %v", r.Method, r.URL.Path, err)
				utils.JSONError(w, http.StatusInternalServerError, "Internal server error during authentication.", "AUTH_ERROR")
			}
			return
		}
		ctx := context.WithValue(r.Context(), artistKey, artist)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth resolves the caller when a valid token is present but never
// rejects: any failure leaves the request anonymous.
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if artist, err := a.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), artistKey, artist))
		}
		next.ServeHTTP(w, r)
	})
}

// CheckOwnership compares a resource-identifying field from the route or
// query against the authenticated subject. Ownership is decided by the
// verified token, never by a client-supplied claim: a mismatched field is
// denied even on routes that also use it as a filter. An absent field
// passes through; stored-owner checks happen in the handlers.
func CheckOwnership(field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			artist := ArtistFrom(r.Context())
			if artist == nil {
				utils.JSONError(w, http.StatusUnauthorized, "Authentication required.", "AUTH_REQUIRED")
				return
			}

			value := r.PathValue(field)
			if value == "" {
				value = r.URL.Query().Get(field)
			}
			if value != "" && value != artist.ID.String() {
				utils.JSONError(w, http.StatusForbidden, "Access denied. You can only access your own resources.", "ACCESS_DENIED")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
