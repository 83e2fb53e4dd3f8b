package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository"
)

// Notifier delivers appointment lifecycle mails. Failures are logged and
// never fail the triggering operation.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appointment *model.Appointment) error
	DoctorAssigned(ctx context.Context, appointment *model.Appointment) error
	AppointmentConfirmed(ctx context.Context, appointment *model.Appointment) error
	AppointmentCancelled(ctx context.Context, appointment *model.Appointment) error
}

type Service struct {
	repo       repository.AppointmentRepository
	doctorRepo repository.DoctorRepository
	notifier   Notifier
	slots      model.SlotGrid
}

func NewService(repo repository.AppointmentRepository, doctorRepo repository.DoctorRepository, notifier Notifier, slots model.SlotGrid) *Service {
	if len(slots) == 0 {
		slots = model.DefaultSlotGrid()
	}
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		notifier:   notifier,
		slots:      slots,
	}
}

// Create persists the appointment assembled by the booking wizard. The
// initial status follows the doctor-binding rule: pending with a chosen
// doctor, waiting_assigned without one.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		BookerID:        req.BookerID,
		HealthProfileID: req.HealthProfileID,
		SpecialtyID:     req.SpecialtyID,
		DoctorID:        req.DoctorID,
		AppointmentDate: model.NormalizeToUTCDay(req.AppointmentDate),
		TimeSlot:        req.TimeSlot,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          req.RequestedStatus(),
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.notify(ctx, appointment, s.notifierCreated)
	return appointment, nil
}

func (s *Service) validateCreate(ctx context.Context, req *model.CreateAppointmentRequest) error {
	if req.BookerID == uuid.Nil {
		return apperrors.Validation("booker is required")
	}
	if req.HealthProfileID == uuid.Nil {
		return apperrors.Validation("health profile is required")
	}
	if req.SpecialtyID == uuid.Nil {
		return apperrors.Validation("specialty is required")
	}
	if !s.slots.Contains(req.TimeSlot) {
		return apperrors.Validation("time slot is not on the clinic grid")
	}
	if len(strings.TrimSpace(req.Reason)) < 2 {
		return apperrors.Validation("reason must be at least 2 characters")
	}

	day := model.NormalizeToUTCDay(req.AppointmentDate)
	if day.Before(model.NormalizeToUTCDay(time.Now())) {
		return apperrors.Validation("appointment date cannot be in the past")
	}

	if req.DoctorID != nil && *req.DoctorID != uuid.Nil {
		doctor, err := s.doctorRepo.Get(ctx, *req.DoctorID)
		if err != nil {
			return err
		}
		if doctor.SpecialtyID != req.SpecialtyID {
			return apperrors.Validation("doctor does not belong to the chosen specialty")
		}

		busy, err := s.repo.HasBookingAt(ctx, doctor.ID, day, req.TimeSlot)
		if err != nil {
			return err
		}
		if busy {
			return apperrors.Conflict("doctor already has an appointment at this slot")
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// ListForDoctorAccount resolves the doctor record behind a doctor login and
// returns that doctor's schedule.
func (s *Service) ListForDoctorAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Appointment, error) {
	doctor, err := s.doctorRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctor.ID)
}

// AuthorizeView checks whether the authenticated account may see the
// appointment. Staff see everything, doctors their own schedule, patients
// their own bookings.
func (s *Service) AuthorizeView(ctx context.Context, user *model.AuthenticatedUser, appointment *model.Appointment) error {
	switch user.Role {
	case model.RoleReceptionist, model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		doctor, err := s.doctorRepo.GetByAccount(ctx, user.AccountID)
		if err != nil {
			return apperrors.Forbidden("appointment belongs to another account")
		}
		if appointment.DoctorID != nil && *appointment.DoctorID == doctor.ID {
			return nil
		}
		return apperrors.Forbidden("appointment belongs to another account")
	default:
		if appointment.BookerID == user.AccountID {
			return nil
		}
		return apperrors.Forbidden("appointment belongs to another account")
	}
}

// Cancel moves any non-terminal appointment to cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.Conflict("appointment is already cancelled")
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.Conflict("cannot cancel a completed appointment")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, appointment.Status, model.AppointmentStatusCancelled)
	if err != nil {
		return nil, err
	}

	if reason != "" {
		updated.CancelReason = &reason
		if err := s.repo.Update(ctx, updated); err != nil {
			log.Warn().Err(err).Str("appointment_id", id.String()).Msg("failed to record cancel reason")
		}
	}

	s.notify(ctx, updated, s.notifierCancelled)
	return updated, nil
}

// Confirm moves a pending appointment to confirmed. A confirmed
// appointment must have a doctor bound.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status != model.AppointmentStatusPending {
		return nil, apperrors.Conflict("only pending appointments can be confirmed")
	}
	if appointment.DoctorID == nil || *appointment.DoctorID == uuid.Nil {
		return nil, apperrors.Conflict("appointment has no doctor bound")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, s.notifierConfirmed)
	return updated, nil
}

// Complete closes out a confirmed appointment after the visit.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.Conflict("only confirmed appointments can be completed")
	}

	return s.repo.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted)
}

type notifyFn func(ctx context.Context, appointment *model.Appointment) error

func (s *Service) notifierCreated(ctx context.Context, a *model.Appointment) error {
	return s.notifier.AppointmentCreated(ctx, a)
}

func (s *Service) notifierConfirmed(ctx context.Context, a *model.Appointment) error {
	return s.notifier.AppointmentConfirmed(ctx, a)
}

func (s *Service) notifierCancelled(ctx context.Context, a *model.Appointment) error {
	return s.notifier.AppointmentCancelled(ctx, a)
}

func (s *Service) notify(ctx context.Context, appointment *model.Appointment, fn notifyFn) {
	if s.notifier == nil {
		return
	}
	if err := fn(ctx, appointment); err != nil {
		log.Warn().Err(err).
			Str("appointment_id", appointment.ID.String()).
			Msg("failed to send appointment notification")
	}
}
