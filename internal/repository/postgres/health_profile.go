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

func (r *healthProfileRepository) Create(ctx context.Context, profile *model.HealthProfile) error {
	query := `
		INSERT INTO health_profiles (
			id, account_id, full_name, date_of_birth, gender,
			allergies, conditions, medications, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.FullName,
		profile.DateOfBirth,
		profile.Gender,
		profile.Allergies,
		profile.Conditions,
		profile.Medications,
		profile.Notes,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create health profile: %w", err)
	}
	return nil
}

func (r *healthProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthProfile, error) {
	query := `
		SELECT id, account_id, full_name, date_of_birth, gender,
			   allergies, conditions, medications, notes,
			   created_at, updated_at, deleted_at
		FROM health_profiles
		WHERE id = $1 AND deleted_at IS NULL
	`
	var profile model.HealthProfile
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("health profile", err)
		}
		return nil, fmt.Errorf("failed to get health profile: %w", err)
	}
	return &profile, nil
}

func (r *healthProfileRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.HealthProfile, error) {
	query := `
		SELECT id, account_id, full_name, date_of_birth, gender,
			   allergies, conditions, medications, notes,
			   created_at, updated_at, deleted_at
		FROM health_profiles
		WHERE account_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	var profiles []*model.HealthProfile
	err := r.db.SelectContext(ctx, &profiles, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health profiles: %w", err)
	}
	return profiles, nil
}
