package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus_media/internal/common"
	"campus_media/internal/domain/model"
)

// PrincipalRepository is the credential store for admins and students.
// Each kind is an independent collection.
type PrincipalRepository interface {
	Create(ctx context.Context, p *model.Principal) error
	// FindByMobileOrEmail returns the first record of kind whose mobile equals
	// mobile OR whose email equals email, or common.ErrNotFound.
	FindByMobileOrEmail(ctx context.Context, kind model.PrincipalKind, mobile, email string) (*model.Principal, error)
}

type pgPrincipalRepository struct {
	db *sql.DB
}

func NewPgPrincipalRepository(db *sql.DB) PrincipalRepository {
	return &pgPrincipalRepository{db: db}
}

func principalTable(kind model.PrincipalKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown principal kind %q: %w", kind, common.ErrBadRequest)
	}
	return string(kind) + "s", nil
}

func (r *pgPrincipalRepository) Create(ctx context.Context, p *model.Principal) error {
	table, err := principalTable(p.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (id, name, mobile, email, hashed_password)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Mobile, p.Email, p.HashedPassword).Scan(&p.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("%s with given mobile or email already exists: %w", p.Kind, common.ErrConflict)
		}
		return fmt.Errorf("pgPrincipalRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPrincipalRepository) FindByMobileOrEmail(ctx context.Context, kind model.PrincipalKind, mobile, email string) (*model.Principal, error) {
	table, err := principalTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, name, mobile, email, hashed_password, created_at
	          FROM ` + table + ` WHERE mobile = $1 OR email = $2
	          LIMIT 1`
	p := &model.Principal{Kind: kind}
	err = r.db.QueryRowContext(ctx, query, mobile, email).Scan(
		&p.ID, &p.Name, &p.Mobile, &p.Email, &p.HashedPassword, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPrincipalRepository.FindByMobileOrEmail: %w", err)
	}
	return p, nil
}
