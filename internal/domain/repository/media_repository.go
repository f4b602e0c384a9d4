package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
)

type MediaRepository interface {
	Create(ctx context.Context, m *model.Media) error
}

type pgMediaRepository struct {
	db *sql.DB
}

func NewPgMediaRepository(db *sql.DB) MediaRepository {
	return &pgMediaRepository{db: db}
}

// mediaInsert returns the insert statement for a kind. EventImage stores its
// caption as name; the others as title.
func mediaInsert(kind model.MediaKind) (string, error) {
	switch kind {
	case model.MediaVideo:
		return `INSERT INTO videos (id, title, slug, url, created_by) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`, nil
	case model.MediaImage:
		return `INSERT INTO images (id, title, slug, url, created_by) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`, nil
	case model.MediaEventImage:
		return `INSERT INTO event_images (id, name, slug, url, created_by) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`, nil
	default:
		return "", fmt.Errorf("unknown media kind %q: %w", kind, common.ErrBadRequest)
	}
}

func (r *pgMediaRepository) Create(ctx context.Context, m *model.Media) error {
	query, err := mediaInsert(m.Kind)
	if err != nil {
		return err
	}
	var createdBy sql.NullString
	if m.CreatedBy != "" {
		createdBy = sql.NullString{String: m.CreatedBy, Valid: true}
	}
	if err := r.db.QueryRowContext(ctx, query, m.ID, m.Caption, m.Slug, m.URL, createdBy).Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("pgMediaRepository.Create(%s): %w", m.Kind, err)
	}
	return nil
}
