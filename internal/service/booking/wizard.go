package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/metrics"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

// Step is the wizard position. Steps are linear; GoBack walks them in
// reverse. Success is terminal.
type Step string

const (
	StepChooseSpecialty Step = "choose_specialty"
	StepChooseDoctor    Step = "choose_doctor"
	StepChooseProfile   Step = "choose_health_profile"
	StepConfirm         Step = "confirm"
	StepSuccess         Step = "success"
)

// Event advances or rewinds the wizard.
type Event string

const (
	EventSpecialtyChosen Event = "specialty_chosen"
	// EventDoctorChosen covers the specialty-only path too: the step also
	// collects the date and slot, with or without a doctor.
	EventDoctorChosen Event = "doctor_chosen"
	EventProfileChosen Event = "profile_chosen"
	EventSubmitted     Event = "submitted"
	EventBack          Event = "back"
)

// Transition is the pure reducer over wizard steps. It carries no session
// data, so every transition is unit-testable without any I/O.
func Transition(step Step, event Event) (Step, error) {
	if event == EventBack {
		switch step {
		case StepChooseDoctor:
			return StepChooseSpecialty, nil
		case StepChooseProfile:
			return StepChooseDoctor, nil
		case StepConfirm:
			return StepChooseProfile, nil
		}
		return step, apperrors.Validation("cannot go back from this step")
	}

	switch {
	case step == StepChooseSpecialty && event == EventSpecialtyChosen:
		return StepChooseDoctor, nil
	case step == StepChooseDoctor && event == EventDoctorChosen:
		return StepChooseProfile, nil
	case step == StepChooseProfile && event == EventProfileChosen:
		return StepConfirm, nil
	case step == StepConfirm && event == EventSubmitted:
		return StepSuccess, nil
	}
	return step, apperrors.Validation("operation is not valid in the current step")
}

// Selection accumulates the wizard's choices. Going back never clears it;
// a later step keeps whatever is still compatible.
type Selection struct {
	SpecialtyID     uuid.UUID  `json:"specialty_id,omitempty"`
	DoctorID        *uuid.UUID `json:"doctor_id,omitempty"`
	AppointmentDate time.Time  `json:"appointment_date,omitempty"`
	TimeSlot        string     `json:"time_slot,omitempty"`
	HealthProfileID uuid.UUID  `json:"health_profile_id,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

// Session is one wizard run for one authenticated booker. Nothing is
// persisted until ConfirmAndSubmit sends the whole selection as a single
// create request.
type Session struct {
	ID            uuid.UUID               `json:"id"`
	Booker        model.AuthenticatedUser `json:"booker"`
	Step          Step                    `json:"step"`
	Selection     Selection               `json:"selection"`
	AppointmentID *uuid.UUID              `json:"appointment_id,omitempty"`
	StartedAt     time.Time               `json:"started_at"`
}

type SpecialtyDirectory interface {
	List(ctx context.Context) ([]*model.Specialty, error)
}

type DoctorDirectory interface {
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error)
}

type ProfileDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*model.HealthProfile, error)
}

type AppointmentCreator interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
}

type Service struct {
	sessions     *SessionStore
	specialties  SpecialtyDirectory
	doctors      DoctorDirectory
	profiles     ProfileDirectory
	appointments AppointmentCreator
	slots        model.SlotGrid
	metrics      *metrics.Metrics
}

func NewService(
	sessions *SessionStore,
	specialties SpecialtyDirectory,
	doctors DoctorDirectory,
	profiles ProfileDirectory,
	appointments AppointmentCreator,
	slots model.SlotGrid,
	m *metrics.Metrics,
) *Service {
	if len(slots) == 0 {
		slots = model.DefaultSlotGrid()
	}
	return &Service{
		sessions:     sessions,
		specialties:  specialties,
		doctors:      doctors,
		profiles:     profiles,
		appointments: appointments,
		slots:        slots,
		metrics:      m,
	}
}

// Start opens a new wizard session for the authenticated booker.
func (s *Service) Start(ctx context.Context, user *model.AuthenticatedUser) (*Session, error) {
	if user == nil || user.AccountID == uuid.Nil {
		return nil, apperrors.Unauthenticated(nil)
	}

	session := &Session{
		ID:        uuid.New(),
		Booker:    *user,
		Step:      StepChooseSpecialty,
		StartedAt: time.Now(),
	}
	s.sessions.Put(session)

	if s.metrics != nil {
		s.metrics.BookingSessionsStarted.Inc()
	}
	return session, nil
}

func (s *Service) Get(sessionID uuid.UUID) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperrors.NotFound("booking session", nil)
	}
	return session, nil
}

// SelectSpecialty validates the id against the currently listed
// specialties and advances the wizard.
func (s *Service) SelectSpecialty(ctx context.Context, sessionID, specialtyID uuid.UUID) (*Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if specialtyID == uuid.Nil {
		return session, s.stepFailure(session, apperrors.Validation("specialty is required"))
	}

	listed, err := s.specialties.List(ctx)
	if err != nil {
		return session, apperrors.Remote(err)
	}
	if !containsSpecialty(listed, specialtyID) {
		return session, s.stepFailure(session, apperrors.Validation("specialty is not currently offered"))
	}

	next, err := Transition(session.Step, EventSpecialtyChosen)
	if err != nil {
		return session, s.stepFailure(session, err)
	}

	session.Selection.SpecialtyID = specialtyID
	session.Step = next
	s.sessions.Put(session)
	return session, nil
}

// SelectDoctor records the date, slot, and optionally a doctor. A nil
// doctor id takes the specialty-only path: the appointment will be created
// in waiting_assigned and a receptionist binds the doctor later.
func (s *Service) SelectDoctor(ctx context.Context, sessionID uuid.UUID, doctorID *uuid.UUID, date time.Time, slot string) (*Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if !s.slots.Contains(slot) {
		return session, s.stepFailure(session, apperrors.Validation("time slot is not on the clinic grid"))
	}

	day := model.NormalizeToUTCDay(date)
	if day.Before(model.NormalizeToUTCDay(time.Now())) {
		return session, s.stepFailure(session, apperrors.Validation("appointment date cannot be in the past"))
	}

	if doctorID != nil && *doctorID != uuid.Nil {
		doctors, err := s.doctors.ListBySpecialty(ctx, session.Selection.SpecialtyID)
		if err != nil {
			return session, apperrors.Remote(err)
		}
		if !containsDoctor(doctors, *doctorID) {
			return session, s.stepFailure(session, apperrors.Validation("doctor does not belong to the chosen specialty"))
		}
	} else {
		doctorID = nil
	}

	next, err := Transition(session.Step, EventDoctorChosen)
	if err != nil {
		return session, s.stepFailure(session, err)
	}

	session.Selection.DoctorID = doctorID
	session.Selection.AppointmentDate = day
	session.Selection.TimeSlot = slot
	session.Step = next
	s.sessions.Put(session)
	return session, nil
}

// SelectHealthProfile requires the profile to belong to the session's
// authenticated booker.
func (s *Service) SelectHealthProfile(ctx context.Context, sessionID, profileID uuid.UUID) (*Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Booker.AccountID == uuid.Nil {
		return session, apperrors.Unauthenticated(nil)
	}
	if profileID == uuid.Nil {
		return session, s.stepFailure(session, apperrors.Validation("health profile is required"))
	}

	profile, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return session, s.stepFailure(session, apperrors.Validation("health profile does not exist"))
		}
		return session, apperrors.Remote(err)
	}
	if profile.AccountID != session.Booker.AccountID {
		return session, s.stepFailure(session, apperrors.Validation("health profile does not belong to the authenticated account"))
	}

	next, err := Transition(session.Step, EventProfileChosen)
	if err != nil {
		return session, s.stepFailure(session, err)
	}

	session.Selection.HealthProfileID = profileID
	session.Step = next
	s.sessions.Put(session)
	return session, nil
}

// GoBack rewinds one step, keeping everything already entered.
func (s *Service) GoBack(sessionID uuid.UUID) (*Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	prev, err := Transition(session.Step, EventBack)
	if err != nil {
		return session, err
	}

	session.Step = prev
	s.sessions.Put(session)
	return session, nil
}

// ConfirmAndSubmit assembles the full payload and performs the single
// appointment-creation call. The call is fired once per invocation, with
// no automatic retry; on failure the session stays on Confirm so the user
// can resubmit without re-entering earlier steps.
func (s *Service) ConfirmAndSubmit(ctx context.Context, sessionID uuid.UUID, reason string) (*Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != StepConfirm {
		return session, s.stepFailure(session, apperrors.Validation("wizard is not at the confirmation step"))
	}

	reason = strings.TrimSpace(reason)
	if len(reason) < 2 {
		return session, s.stepFailure(session, apperrors.Validation("reason must be at least 2 characters"))
	}

	// Step-order invariant: no remote call with a missing specialty or
	// profile, even if the step value was tampered with.
	if session.Selection.SpecialtyID == uuid.Nil {
		return session, s.stepFailure(session, apperrors.Validation("no specialty selected"))
	}
	if session.Selection.HealthProfileID == uuid.Nil {
		return session, s.stepFailure(session, apperrors.Validation("no health profile selected"))
	}

	req := &model.CreateAppointmentRequest{
		BookerID:        session.Booker.AccountID,
		HealthProfileID: session.Selection.HealthProfileID,
		SpecialtyID:     session.Selection.SpecialtyID,
		DoctorID:        session.Selection.DoctorID,
		AppointmentDate: model.NormalizeToUTCDay(session.Selection.AppointmentDate),
		TimeSlot:        session.Selection.TimeSlot,
		Reason:          reason,
	}

	appointment, err := s.appointments.Create(ctx, req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.BookingsSubmitted.WithLabelValues("error").Inc()
		}
		if apperrors.IsCode(err, apperrors.ErrValidation) || apperrors.IsCode(err, apperrors.ErrConflict) {
			return session, err
		}
		return session, apperrors.Remote(err)
	}

	session.Selection.Reason = reason
	session.Step = StepSuccess
	session.AppointmentID = &appointment.ID
	s.sessions.Put(session)

	if s.metrics != nil {
		s.metrics.BookingsSubmitted.WithLabelValues("success").Inc()
	}
	return session, nil
}

func (s *Service) stepFailure(session *Session, err error) error {
	if s.metrics != nil {
		s.metrics.BookingStepFailures.WithLabelValues(string(session.Step)).Inc()
	}
	return err
}

func containsSpecialty(specialties []*model.Specialty, id uuid.UUID) bool {
	for _, sp := range specialties {
		if sp.ID == id {
			return true
		}
	}
	return false
}

func containsDoctor(doctors []*model.Doctor, id uuid.UUID) bool {
	for _, d := range doctors {
		if d.ID == id {
			return true
		}
	}
	return false
}
