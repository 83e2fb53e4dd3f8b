package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

type scheduleRow struct {
	Day       string         `db:"day"`
	TimeSlots pq.StringArray `db:"time_slots"`
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, account_id, name, email, specialty_id, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.AccountID,
		doctor.Name,
		doctor.Email,
		doctor.SpecialtyID,
		doctor.Status,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	if len(doctor.WeeklySchedule) > 0 {
		if err := r.ReplaceWeeklySchedule(ctx, doctor.ID, doctor.WeeklySchedule); err != nil {
			return err
		}
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, account_id, name, email, specialty_id, status,
			   created_at, updated_at, deleted_at
		FROM doctors
		WHERE id = $1 AND deleted_at IS NULL
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	schedule, err := r.GetWeeklySchedule(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}
	doctor.WeeklySchedule = schedule
	return &doctor, nil
}

func (r *doctorRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, account_id, name, email, specialty_id, status,
			   created_at, updated_at, deleted_at
		FROM doctors
		WHERE account_id = $1 AND deleted_at IS NULL
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by account: %w", err)
	}

	schedule, err := r.GetWeeklySchedule(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}
	doctor.WeeklySchedule = schedule
	return &doctor, nil
}

func (r *doctorRepository) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT id, account_id, name, email, specialty_id, status,
			   created_at, updated_at, deleted_at
		FROM doctors
		WHERE specialty_id = $1 AND deleted_at IS NULL AND status = 'active'
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialty: %w", err)
	}

	for _, doctor := range doctors {
		schedule, err := r.GetWeeklySchedule(ctx, doctor.ID)
		if err != nil {
			return nil, err
		}
		doctor.WeeklySchedule = schedule
	}
	return doctors, nil
}

func (r *doctorRepository) GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) ([]model.ScheduleEntry, error) {
	query := `
		SELECT day, time_slots
		FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY id ASC
	`
	var rows []scheduleRow
	err := r.db.SelectContext(ctx, &rows, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly schedule: %w", err)
	}

	schedule := make([]model.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		schedule = append(schedule, model.ScheduleEntry{
			Day:       row.Day,
			TimeSlots: row.TimeSlots,
		})
	}
	return schedule, nil
}

func (r *doctorRepository) ReplaceWeeklySchedule(ctx context.Context, doctorID uuid.UUID, schedule []model.ScheduleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM doctor_schedules WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to clear weekly schedule: %w", err)
	}

	insert := `
		INSERT INTO doctor_schedules (doctor_id, day, time_slots)
		VALUES ($1, $2, $3)
	`
	for _, entry := range schedule {
		if _, err := tx.ExecContext(ctx, insert, doctorID, entry.Day, pq.StringArray(entry.TimeSlots)); err != nil {
			return fmt.Errorf("failed to insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weekly schedule: %w", err)
	}
	return nil
}
