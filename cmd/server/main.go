package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rohits-web03/artfolio/internal/api"
	"github.com/rohits-web03/artfolio/internal/config"
	"github.com/rohits-web03/artfolio/internal/repositories"
	"github.com/rohits-web03/artfolio/internal/uploads"
)

func main() {
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	pipeline, err := uploads.NewPipeline(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to prepare upload directories: %v", err)
	}

	artists := repositories.NewGormArtistStore(db)
	artworks := repositories.NewGormArtworkStore(db)

	handler := api.SetupRouter(cfg, artists, artworks, pipeline)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients; the
		// write timeout leaves room for image normalization.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Artfolio server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
