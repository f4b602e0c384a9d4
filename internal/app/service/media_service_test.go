package service

import (
	"context"
	"errors"
	"testing"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
	"campus_media/internal/domain/repository"
	"campus_media/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCreateMedia(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMediaRepository()
	m := metrics.New()
	svc := NewMediaService(repo, m)

	video, err := svc.CreateMedia(ctx, model.MediaVideo, "user-1", CreateMediaRequest{Title: "Orientation Day 2024", URL: " https://cdn.example/v.mp4 "})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if video.Slug != "orientation-day-2024" {
		t.Fatalf("unexpected slug %q", video.Slug)
	}
	if video.URL != "https://cdn.example/v.mp4" || video.CreatedBy != "user-1" {
		t.Fatalf("unexpected record %+v", video)
	}

	event, err := svc.CreateMedia(ctx, model.MediaEventImage, "user-1", CreateMediaRequest{Name: "Sports Meet", URL: "https://cdn.example/e.jpg"})
	if err != nil {
		t.Fatalf("create event image error: %v", err)
	}
	if event.Caption != "Sports Meet" {
		t.Fatalf("event images are captioned by name, got %q", event.Caption)
	}

	symbols, err := svc.CreateMedia(ctx, model.MediaImage, "user-1", CreateMediaRequest{Title: "!!!", URL: "https://cdn.example/i.jpg"})
	if err != nil {
		t.Fatalf("create image error: %v", err)
	}
	if symbols.Slug == "" {
		t.Fatalf("expected fallback slug")
	}

	if len(repo.List(model.MediaVideo)) != 1 || len(repo.List(model.MediaEventImage)) != 1 || len(repo.List(model.MediaImage)) != 1 {
		t.Fatalf("expected one record per kind")
	}
	if got := testutil.ToFloat64(m.MediaCreated.WithLabelValues("video")); got != 1 {
		t.Fatalf("expected one video counted, got %v", got)
	}
}

func TestCreateMediaValidation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMediaRepository()
	svc := NewMediaService(repo, metrics.New())

	cases := []struct {
		kind model.MediaKind
		req  CreateMediaRequest
	}{
		{model.MediaVideo, CreateMediaRequest{URL: "https://x"}},
		{model.MediaVideo, CreateMediaRequest{Title: "T"}},
		{model.MediaEventImage, CreateMediaRequest{Title: "only title", URL: "https://x"}},
		{model.MediaImage, CreateMediaRequest{Name: "only name", URL: "https://x"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateMedia(ctx, tc.kind, "user-1", tc.req); !errors.Is(err, common.ErrBadRequest) {
			t.Fatalf("expected bad request for %s %+v, got %v", tc.kind, tc.req, err)
		}
	}
	if n := len(repo.List(model.MediaVideo)); n != 0 {
		t.Fatalf("invalid requests must not store records, got %d", n)
	}
}
