package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	// AppointmentStatusWaitingAssigned is a specialty-only booking waiting
	// for a receptionist to bind a doctor.
	AppointmentStatusWaitingAssigned AppointmentStatus = "waiting_assigned"
	AppointmentStatusPending         AppointmentStatus = "pending"
	AppointmentStatusConfirmed       AppointmentStatus = "confirmed"
	AppointmentStatusCompleted       AppointmentStatus = "completed"
	AppointmentStatusCancelled       AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusWaitingAssigned, AppointmentStatusPending,
		AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo encodes the appointment lifecycle. Appointments are never
// deleted; they only move through statuses.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == AppointmentStatusCancelled {
		return true
	}
	switch s {
	case AppointmentStatusWaitingAssigned:
		return next == AppointmentStatusPending
	case AppointmentStatusPending:
		// pending may fall back to waiting_assigned when a receptionist
		// reopens doctor assignment.
		return next == AppointmentStatusConfirmed || next == AppointmentStatusWaitingAssigned
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted
	}
	return false
}

// RequiresDoctor reports whether the status demands a bound doctor.
func (s AppointmentStatus) RequiresDoctor() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusCompleted
}

type Appointment struct {
	Base
	BookerID        uuid.UUID         `db:"booker_id" json:"booker_id"`
	HealthProfileID uuid.UUID         `db:"health_profile_id" json:"health_profile_id"`
	SpecialtyID     uuid.UUID         `db:"specialty_id" json:"specialty_id"`
	DoctorID        *uuid.UUID        `db:"doctor_id" json:"doctor_id,omitempty"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string            `db:"time_slot" json:"time_slot"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CancelReason    *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

// Weekday returns the weekday name of the appointment date, used to match
// doctor schedule entries.
func (a *Appointment) Weekday() string {
	return a.AppointmentDate.UTC().Weekday().String()
}

// SameSlot reports whether the other appointment occupies the same calendar
// day and the same slot token. The comparison is day-level, not full
// timestamp, and the slot is compared as an opaque string.
func (a *Appointment) SameSlot(other *Appointment) bool {
	return SameCalendarDay(a.AppointmentDate, other.AppointmentDate) &&
		a.TimeSlot == other.TimeSlot
}

// CreateAppointmentRequest is the payload the booking wizard assembles on
// confirmation. DoctorID absent means the booking was made by specialty
// only and starts in waiting_assigned.
type CreateAppointmentRequest struct {
	BookerID        uuid.UUID  `json:"booker_id"`
	HealthProfileID uuid.UUID  `json:"health_profile_id"`
	SpecialtyID     uuid.UUID  `json:"specialty_id"`
	DoctorID        *uuid.UUID `json:"doctor_id,omitempty"`
	AppointmentDate time.Time  `json:"appointment_date"`
	TimeSlot        string     `json:"time_slot"`
	Reason          string     `json:"reason"`
}

// RequestedStatus is the status a new appointment starts in: pending when a
// doctor was chosen directly, waiting_assigned otherwise.
func (r *CreateAppointmentRequest) RequestedStatus() AppointmentStatus {
	if r.DoctorID != nil && *r.DoctorID != uuid.Nil {
		return AppointmentStatusPending
	}
	return AppointmentStatusWaitingAssigned
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AppointmentFilters struct {
	BookerID  uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}

// NormalizeToUTCDay truncates a timestamp to UTC midnight. Appointment
// dates carry no time component; the slot token holds the time of day.
func NormalizeToUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameCalendarDay compares two timestamps at day granularity in UTC.
func SameCalendarDay(a, b time.Time) bool {
	return NormalizeToUTCDay(a).Equal(NormalizeToUTCDay(b))
}
