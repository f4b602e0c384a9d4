package service

import (
	"context"
	"fmt"
	"strings"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
	"campus_media/internal/domain/repository"
	"campus_media/internal/platform/metrics"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type MediaService struct {
	mediaRepo repository.MediaRepository
	metrics   *metrics.Metrics
}

func NewMediaService(mediaRepo repository.MediaRepository, m *metrics.Metrics) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, metrics: m}
}

// CreateMediaRequest carries title for videos and images, name for event images.
type CreateMediaRequest struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Caption returns the field that kind is keyed on.
func (r CreateMediaRequest) Caption(kind model.MediaKind) string {
	if kind == model.MediaEventImage {
		return strings.TrimSpace(r.Name)
	}
	return strings.TrimSpace(r.Title)
}

func (r CreateMediaRequest) Validate(kind model.MediaKind) error {
	field := "title"
	if kind == model.MediaEventImage {
		field = "name"
	}
	if r.Caption(kind) == "" || strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("%s and url are required: %w", field, common.ErrBadRequest)
	}
	return nil
}

// CreateMedia stores a media record on behalf of the authenticated principal userID.
func (s *MediaService) CreateMedia(ctx context.Context, kind model.MediaKind, userID string, req CreateMediaRequest) (*model.Media, error) {
	if err := req.Validate(kind); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	caption := req.Caption(kind)
	mediaSlug := slug.Make(caption)
	if mediaSlug == "" {
		mediaSlug = id[:8]
	}

	m := &model.Media{
		ID:        id,
		Kind:      kind,
		Caption:   caption,
		Slug:      mediaSlug,
		URL:       strings.TrimSpace(req.URL),
		CreatedBy: userID,
	}
	if err := s.mediaRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}
	s.metrics.ObserveMedia(string(kind))
	return m, nil
}
