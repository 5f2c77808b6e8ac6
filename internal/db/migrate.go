package db

import (
	"context"
	"time"

	"document-storage-server/internal/document"

	"github.com/rs/zerolog/log"
)

// Migrate runs database migrations
func Migrate() {
	if err := AppDb.AutoMigrate(&document.Document{}); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	log.Info().Msg("database schema migrated")
}

// SeedData seeds an empty store with a starter document (development only)
func SeedData() {
	repo := document.NewRepository(AppDb)
	ctx := context.Background()

	maxID, err := repo.MaxID(ctx)
	if err != nil {
		log.Error().Err(err).Msg("seed check failed")
		return
	}
	if maxID > 0 {
		return
	}

	now := time.Now().UTC()
	starter := &document.Document{
		ID:         1,
		Name:       "Getting Started.docx",
		Content:    []byte("PK"), // placeholder docx stub replaced on first save
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := repo.Create(ctx, starter); err != nil {
		log.Error().Err(err).Msg("failed to seed starter document")
		return
	}
	log.Info().Str("name", starter.Name).Msg("seeded starter document")
}
