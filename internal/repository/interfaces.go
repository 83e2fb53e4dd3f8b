package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *model.Specialty) error
	Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error)
	List(ctx context.Context) ([]*model.Specialty, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Doctor, error)
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error)
	GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) ([]model.ScheduleEntry, error)
	ReplaceWeeklySchedule(ctx context.Context, doctorID uuid.UUID, schedule []model.ScheduleEntry) error
}

type HealthProfileRepository interface {
	Create(ctx context.Context, profile *model.HealthProfile) error
	Get(ctx context.Context, id uuid.UUID) (*model.HealthProfile, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.HealthProfile, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error

	// UpdateStatus performs a compare-and-swap: the row moves from one
	// status to the next only if it still holds the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error)

	// AssignDoctor binds a doctor and advances waiting_assigned to pending
	// in a single guarded update.
	AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error)

	// HasBookingAt reports whether the doctor already holds a non-cancelled
	// appointment on the given calendar day with the given slot token.
	HasBookingAt(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) (bool, error)
}
