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

const appointmentColumns = `
	id, booker_id, health_profile_id, specialty_id, doctor_id,
	appointment_date, time_slot, reason, status, cancel_reason,
	created_at, updated_at, deleted_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, booker_id, health_profile_id, specialty_id, doctor_id,
			appointment_date, time_slot, reason, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.BookerID,
		appointment.HealthProfileID,
		appointment.SpecialtyID,
		appointment.DoctorID,
		appointment.AppointmentDate,
		appointment.TimeSlot,
		appointment.Reason,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND deleted_at IS NULL`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 1

	if filters.BookerID != uuid.Nil {
		query += fmt.Sprintf(" AND booker_id = $%d", argCount)
		args = append(args, filters.BookerID)
		argCount++
	}

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND appointment_date <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY appointment_date ASC, time_slot ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND deleted_at IS NULL
		AND status NOT IN ('cancelled')
		ORDER BY appointment_date ASC, time_slot ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, appointment_date = $2, time_slot = $3,
			reason = $4, status = $5, cancel_reason = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.DoctorID,
		appointment.AppointmentDate,
		appointment.TimeSlot,
		appointment.Reason,
		appointment.Status,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

// UpdateStatus is the serialization point for concurrent status changes:
// the WHERE clause makes the transition a compare-and-swap, so two actors
// racing the same appointment cannot both succeed.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, to, time.Now(), id, from)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Conflict(fmt.Sprintf("appointment is no longer %s", from))
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET doctor_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND deleted_at IS NULL
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query,
		doctorID,
		model.AppointmentStatusPending,
		time.Now(),
		id,
		model.AppointmentStatusWaitingAssigned,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Conflict("appointment is no longer waiting for assignment")
		}
		return nil, fmt.Errorf("failed to assign doctor: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) HasBookingAt(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND appointment_date::date = $2::date
			AND time_slot = $3
			AND status NOT IN ('cancelled')
			AND deleted_at IS NULL
		)
	`
	var busy bool
	err := r.db.GetContext(ctx, &busy, query, doctorID, model.NormalizeToUTCDay(day), slot)
	if err != nil {
		return false, fmt.Errorf("failed to check doctor booking: %w", err)
	}
	return busy, nil
}
