package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
	"campus_media/internal/platform/database"
)

func openTestDB(t *testing.T) *sql.DB {
	url := os.Getenv("CAMPUS_MEDIA_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("CAMPUS_MEDIA_TEST_DB or DATABASE_URL not set")
		return nil
	}
	ctx := context.Background()
	db, err := database.Connect(ctx, url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("migrate error: %v", err)
	}
	return db
}

func TestPgPrincipalRepository(t *testing.T) {
	db := openTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()
	ctx := context.Background()
	repo := NewPgPrincipalRepository(db)

	suffix := uuid.NewString()[:8]
	mobile := "9" + suffix
	email := "admin." + suffix + "@example.local"
	p := &model.Principal{ID: uuid.NewString(), Kind: model.KindAdmin, Name: "A", Mobile: mobile, Email: email, HashedPassword: "hash"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if p.CreatedAt.IsZero() {
		t.Fatalf("expected created_at from RETURNING")
	}

	got, err := repo.FindByMobileOrEmail(ctx, model.KindAdmin, email, email)
	if err != nil {
		t.Fatalf("find by email error: %v", err)
	}
	if got.ID != p.ID || got.HashedPassword != "hash" {
		t.Fatalf("unexpected principal %+v", got)
	}
	if _, err := repo.FindByMobileOrEmail(ctx, model.KindAdmin, mobile, "nobody@example.local"); err != nil {
		t.Fatalf("find by mobile error: %v", err)
	}
	if _, err := repo.FindByMobileOrEmail(ctx, model.KindStudent, mobile, email); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected students to be independent, got %v", err)
	}

	dup := &model.Principal{ID: uuid.NewString(), Kind: model.KindAdmin, Name: "B", Mobile: "8" + suffix, Email: email, HashedPassword: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected unique index conflict, got %v", err)
	}
}

func TestPgMediaRepository(t *testing.T) {
	db := openTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()
	ctx := context.Background()
	repo := NewPgMediaRepository(db)

	for _, kind := range []model.MediaKind{model.MediaVideo, model.MediaImage, model.MediaEventImage} {
		m := &model.Media{ID: uuid.NewString(), Kind: kind, Caption: "Welcome", Slug: "welcome", URL: "https://cdn.example/x"}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create %s error: %v", kind, err)
		}
		if m.CreatedAt.IsZero() {
			t.Fatalf("expected created_at for %s", kind)
		}
	}
}
