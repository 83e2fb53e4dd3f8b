package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	specialty.ID = uuid.New()
	specialty.CreatedAt = time.Now()
	specialty.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		specialty.ID,
		specialty.Name,
		specialty.Description,
		specialty.Status,
		specialty.CreatedAt,
		specialty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *specialtyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	query := `
		SELECT id, name, description, status, created_at, updated_at, deleted_at
		FROM specialties
		WHERE id = $1 AND deleted_at IS NULL
	`
	var specialty model.Specialty
	err := r.db.GetContext(ctx, &specialty, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("specialty", err)
		}
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) List(ctx context.Context) ([]*model.Specialty, error) {
	query := `
		SELECT id, name, description, status, created_at, updated_at, deleted_at
		FROM specialties
		WHERE deleted_at IS NULL AND status = 'active'
		ORDER BY name ASC
	`
	var specialties []*model.Specialty
	err := r.db.SelectContext(ctx, &specialties, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}
