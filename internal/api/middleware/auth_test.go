package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/artfolio/internal/api/middleware"
	"github.com/rohits-web03/artfolio/internal/auth"
	"github.com/rohits-web03/artfolio/internal/models"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/utils"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func seedArtist(t *testing.T, store *repositories.MemoryArtistStore) *models.Artist {
	t.Helper()
	artist := &models.Artist{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "irrelevant",
		Address:  "12 Analytical Lane",
	}
	require.NoError(t, store.Create(context.Background(), artist))
	return artist
}

// echoArtist reports whether an artist was attached to the context.
func echoArtist(got **models.Artist) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = middleware.ArtistFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireAuth(t *testing.T) {
	store := repositories.NewMemoryArtistStore()
	artist := seedArtist(t, store)
	authmw := middleware.NewAuth(testSecret, store)

	token, err := auth.IssueToken(artist, testSecret)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "NO_TOKEN", errorCode(t, rec))
		require.Nil(t, got)
	})

	t.Run("malformed header", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", token) // no Bearer prefix

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "NO_TOKEN", errorCode(t, rec))
	})

	t.Run("invalid token", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &auth.Claims{
			UserID: artist.ID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+expired)

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "TOKEN_EXPIRED", errorCode(t, rec))
	})

	t.Run("valid token with vanished subject", func(t *testing.T) {
		ghost := seedArtist(t, repositories.NewMemoryArtistStore()) // never in this store
		ghostToken, err := auth.IssueToken(ghost, testSecret)
		require.NoError(t, err)

		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+ghostToken)

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
	})

	t.Run("store failure is not a credential error", func(t *testing.T) {
		failing := middleware.NewAuth(testSecret, failingArtistStore{})
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		failing.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "AUTH_ERROR", errorCode(t, rec))
	})

	t.Run("valid token", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		authmw.RequireAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, artist.ID, got.ID)
	})
}

func TestOptionalAuth(t *testing.T) {
	store := repositories.NewMemoryArtistStore()
	artist := seedArtist(t, store)
	authmw := middleware.NewAuth(testSecret, store)

	token, err := auth.IssueToken(artist, testSecret)
	require.NoError(t, err)

	t.Run("anonymous passes through", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		authmw.OptionalAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, got)
	})

	t.Run("bad token passes through unauthenticated", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		authmw.OptionalAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, got)
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		var got *models.Artist
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		authmw.OptionalAuth(echoArtist(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, artist.ID, got.ID)
	})
}

func TestCheckOwnership(t *testing.T) {
	store := repositories.NewMemoryArtistStore()
	artist := seedArtist(t, store)

	withArtist := func(r *http.Request, a *models.Artist) *http.Request {
		if a == nil {
			return r
		}
		// Run through OptionalAuth to attach the artist the same way
		// production requests do.
		token, err := auth.IssueToken(a, testSecret)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
		return r
	}
	authmw := middleware.NewAuth(testSecret, store)

	run := func(t *testing.T, caller *models.Artist, target string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		req := withArtist(httptest.NewRequest(http.MethodGet, target, nil), caller)

		mux := http.NewServeMux()
		guarded := middleware.CheckOwnership("artistId")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		mux.Handle("GET /guarded/{artistId}", authmw.OptionalAuth(guarded))
		mux.Handle("GET /guarded", authmw.OptionalAuth(guarded))
		mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("unauthenticated", func(t *testing.T) {
		rec := run(t, nil, "/guarded/"+artist.ID.String())
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "AUTH_REQUIRED", errorCode(t, rec))
	})

	t.Run("mismatched field", func(t *testing.T) {
		rec := run(t, artist, "/guarded/"+uuid.NewString())
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "ACCESS_DENIED", errorCode(t, rec))
	})

	t.Run("matching field", func(t *testing.T) {
		rec := run(t, artist, "/guarded/"+artist.ID.String())
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("absent field passes", func(t *testing.T) {
		rec := run(t, artist, "/guarded")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mismatched query field", func(t *testing.T) {
		rec := run(t, artist, "/guarded?artistId="+uuid.NewString())
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

type failingArtistStore struct{}

func (failingArtistStore) Create(context.Context, *models.Artist) error { return errors.New("down") }
func (failingArtistStore) FindByID(context.Context, uuid.UUID) (*models.Artist, error) {
	return nil, errors.New("store unreachable")
}
func (failingArtistStore) FindByEmail(context.Context, string) (*models.Artist, error) {
	return nil, errors.New("down")
}
func (failingArtistStore) Update(context.Context, *models.Artist) error { return errors.New("down") }
func (failingArtistStore) List(context.Context, int, int) ([]models.Artist, int64, error) {
	return nil, 0, errors.New("down")
}
