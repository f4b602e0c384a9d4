package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
)

// MemoryPrincipalRepository keeps principals in process memory. Like the
// Postgres tables it rejects a second record sharing mobile or email.
type MemoryPrincipalRepository struct {
	mu      sync.RWMutex
	records map[model.PrincipalKind][]model.Principal
	now     func() time.Time
}

func NewMemoryPrincipalRepository() *MemoryPrincipalRepository {
	return &MemoryPrincipalRepository{
		records: make(map[model.PrincipalKind][]model.Principal),
		now:     time.Now,
	}
}

func (r *MemoryPrincipalRepository) Create(ctx context.Context, p *model.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := principalTable(p.Kind); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records[p.Kind] {
		if existing.Mobile == p.Mobile || existing.Email == p.Email {
			return fmt.Errorf("%s with given mobile or email already exists: %w", p.Kind, common.ErrConflict)
		}
	}
	p.CreatedAt = r.now().UTC()
	r.records[p.Kind] = append(r.records[p.Kind], *p)
	return nil
}

func (r *MemoryPrincipalRepository) FindByMobileOrEmail(ctx context.Context, kind model.PrincipalKind, mobile, email string) (*model.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := principalTable(kind); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, existing := range r.records[kind] {
		if existing.Mobile == mobile || existing.Email == email {
			found := existing
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

// Count returns how many principals of kind are stored.
func (r *MemoryPrincipalRepository) Count(kind model.PrincipalKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[kind])
}

type MemoryMediaRepository struct {
	mu      sync.RWMutex
	records []model.Media
	now     func() time.Time
}

func NewMemoryMediaRepository() *MemoryMediaRepository {
	return &MemoryMediaRepository{now: time.Now}
}

func (r *MemoryMediaRepository) Create(ctx context.Context, m *model.Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := mediaInsert(m.Kind); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.CreatedAt = r.now().UTC()
	r.records = append(r.records, *m)
	return nil
}

// List returns a copy of the stored records of kind in insertion order.
func (r *MemoryMediaRepository) List(kind model.MediaKind) []model.Media {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Media
	for _, m := range r.records {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
