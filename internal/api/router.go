package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/rohits-web03/artfolio/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/artfolio/internal/api/handlers"
	"github.com/rohits-web03/artfolio/internal/api/middleware"
	"github.com/rohits-web03/artfolio/internal/config"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/uploads"
	"github.com/rs/cors"
)

// SetupRouter wires every endpoint. The middleware order per request is
// upload pipeline (inside handlers), validation, credential verification,
// ownership guard, handler.
func SetupRouter(
	cfg config.Config,
	artists repositories.ArtistStore,
	artworks repositories.ArtworkStore,
	up *uploads.Pipeline,
) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	authmw := middleware.NewAuth(cfg.JWTSecret, artists)
	artistHandler := handlers.NewArtistHandler(cfg.JWTSecret, artists, up)
	artworkHandler := handlers.NewArtworkHandler(artworks, up)

	bearer := func(h http.HandlerFunc) http.Handler {
		return authmw.RequireAuth(h)
	}
	owner := func(h http.HandlerFunc) http.Handler {
		return authmw.RequireAuth(middleware.CheckOwnership("artistId")(h))
	}

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// Persisted uploads are served back under the same layout they are
	// stored in.
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// ---------- ARTISTS ----------
	mux.HandleFunc("POST /api/artists/register", artistHandler.Register)
	mux.HandleFunc("POST /api/artists/login", artistHandler.Login)
	mux.Handle("GET /api/artists/profile", bearer(artistHandler.Profile))
	mux.Handle("PUT /api/artists/profile", bearer(artistHandler.UpdateProfile))
	mux.HandleFunc("GET /api/artists/by-email/{email}", artistHandler.ByEmail)
	mux.HandleFunc("GET /api/artists", artistHandler.List)

	// ---------- ARTWORKS ----------
	mux.Handle("POST /api/artworks/upload", owner(artworkHandler.Upload))
	mux.HandleFunc("GET /api/artworks/search", artworkHandler.Search)
	mux.Handle("GET /api/artworks/my/artworks", bearer(artworkHandler.Mine))
	mux.HandleFunc("GET /api/artworks/artist/{artistId}", artworkHandler.ByArtist)
	mux.Handle("GET /api/artworks/{id}", authmw.OptionalAuth(http.HandlerFunc(artworkHandler.Get)))
	mux.Handle("PUT /api/artworks/{id}", owner(artworkHandler.Update))
	mux.Handle("DELETE /api/artworks/{id}", owner(artworkHandler.Delete))
	mux.HandleFunc("POST /api/artworks/{id}/like", artworkHandler.Like)
	mux.HandleFunc("GET /api/artworks", artworkHandler.PublicList)

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
