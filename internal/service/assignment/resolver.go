package assignment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"
	"github.com/phongkham/clinic-booking-api/pkg/metrics"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

// BusyState distinguishes a confirmed-free doctor from one whose busy
// check could not be verified. Lookup failures degrade to unknown instead
// of failing the whole candidate list.
type BusyState string

const (
	BusyFree    BusyState = "free"
	BusyBusy    BusyState = "busy"
	BusyUnknown BusyState = "unknown"
)

// DoctorCandidate pairs a doctor with the two derived flags the
// receptionist picks on. Candidates are ephemeral; they are recomputed on
// every load and never persisted.
type DoctorCandidate struct {
	Doctor          *model.Doctor `json:"doctor"`
	MatchesSchedule bool          `json:"matches_schedule"`
	Busy            BusyState     `json:"busy"`
}

// Selectable reports whether the candidate may be assigned.
func (c DoctorCandidate) Selectable() bool {
	return c.MatchesSchedule && c.Busy != BusyBusy
}

// Target is the resolver's view of an unassigned appointment. The
// specialty reference may arrive as a raw id or a populated object; both
// normalize through model.Ref.
type Target struct {
	ID              uuid.UUID                  `json:"id"`
	Specialty       model.Ref[model.Specialty] `json:"specialty"`
	AppointmentDate time.Time                  `json:"appointment_date"`
	TimeSlot        string                     `json:"time_slot"`
	Status          model.AppointmentStatus    `json:"status"`
}

// TargetFromAppointment builds a resolver target from a stored appointment.
func TargetFromAppointment(a *model.Appointment) Target {
	return Target{
		ID:              a.ID,
		Specialty:       model.RefFromID[model.Specialty](a.SpecialtyID),
		AppointmentDate: a.AppointmentDate,
		TimeSlot:        a.TimeSlot,
		Status:          a.Status,
	}
}

type DoctorDirectory interface {
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error)
}

// Notifier tells the booker a doctor was bound. Delivery failures are
// logged and never undo the assignment.
type Notifier interface {
	DoctorAssigned(ctx context.Context, appointment *model.Appointment) error
}

type AppointmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	HasBookingAt(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) (bool, error)
	AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error)
}

// Resolver computes doctor candidates for unassigned appointments and
// executes the single assignment transaction.
type Resolver struct {
	doctors      DoctorDirectory
	appointments AppointmentStore
	locker       Locker
	notifier     Notifier
	metrics      *metrics.Metrics

	mu sync.Mutex
	// last computed busy state per appointment, consulted by the Assign
	// guard. The window between computation and assignment is the race the
	// store's compare-and-swap closes.
	snapshots map[uuid.UUID]map[uuid.UUID]BusyState
}

func NewResolver(doctors DoctorDirectory, appointments AppointmentStore, locker Locker, notifier Notifier, m *metrics.Metrics) *Resolver {
	return &Resolver{
		doctors:      doctors,
		appointments: appointments,
		locker:       locker,
		notifier:     notifier,
		metrics:      m,
		snapshots:    make(map[uuid.UUID]map[uuid.UUID]BusyState),
	}
}

// LoadCandidates returns every doctor in the target's specialty whose
// weekly schedule matches the target's weekday and slot, each paired with
// its busy state. Doctors whose schedule does not match are excluded
// entirely, not merely disabled. The computation is a pure function of
// current remote state: two consecutive loads with no intervening changes
// yield the same candidate set.
func (r *Resolver) LoadCandidates(ctx context.Context, target Target) ([]DoctorCandidate, error) {
	if r.metrics != nil {
		r.metrics.CandidateLoads.Inc()
	}

	specialtyID := target.Specialty.ResolveID()
	if specialtyID == uuid.Nil {
		if r.metrics != nil {
			r.metrics.CandidateLoadErrors.Inc()
		}
		return []DoctorCandidate{}, apperrors.MissingSpecialty()
	}

	doctors, err := r.doctors.ListBySpecialty(ctx, specialtyID)
	if err != nil {
		if r.metrics != nil {
			r.metrics.CandidateLoadErrors.Inc()
		}
		return nil, apperrors.Remote(err)
	}

	weekday := target.AppointmentDate.UTC().Weekday().String()

	var matching []*model.Doctor
	for _, doctor := range doctors {
		if doctor.AvailableOn(weekday, target.TimeSlot) {
			matching = append(matching, doctor)
		}
	}

	// Busy checks run as an unordered batch; a failing lookup marks that
	// one candidate unknown rather than blocking the list.
	candidates := make([]DoctorCandidate, len(matching))
	var wg sync.WaitGroup
	for i, doctor := range matching {
		wg.Add(1)
		go func(i int, doctor *model.Doctor) {
			defer wg.Done()
			candidates[i] = DoctorCandidate{
				Doctor:          doctor,
				MatchesSchedule: true,
				Busy:            r.busyState(ctx, doctor.ID, target),
			}
		}(i, doctor)
	}
	wg.Wait()

	r.snapshot(target.ID, candidates)
	return candidates, nil
}

func (r *Resolver) busyState(ctx context.Context, doctorID uuid.UUID, target Target) BusyState {
	busy, err := r.appointments.HasBookingAt(ctx, doctorID, target.AppointmentDate, target.TimeSlot)
	if err != nil {
		log.Warn().Err(err).
			Str("doctor_id", doctorID.String()).
			Str("appointment_id", target.ID.String()).
			Msg("busy check failed, marking unknown")
		if r.metrics != nil {
			r.metrics.BusyCheckUnknown.Inc()
		}
		return BusyUnknown
	}
	if busy {
		return BusyBusy
	}
	return BusyFree
}

func (r *Resolver) snapshot(appointmentID uuid.UUID, candidates []DoctorCandidate) {
	states := make(map[uuid.UUID]BusyState, len(candidates))
	for _, c := range candidates {
		states[c.Doctor.ID] = c.Busy
	}
	r.mu.Lock()
	r.snapshots[appointmentID] = states
	r.mu.Unlock()
}

func (r *Resolver) lastBusyState(appointmentID, doctorID uuid.UUID) (BusyState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	states, ok := r.snapshots[appointmentID]
	if !ok {
		return "", false
	}
	state, ok := states[doctorID]
	return state, ok
}

// EnsureAssignable moves the appointment into waiting_assigned before the
// candidate picker opens. If the transition fails the caller still gets
// the original appointment back: the picker opens degraded rather than
// not at all.
func (r *Resolver) EnsureAssignable(ctx context.Context, appointmentID uuid.UUID) (*model.Appointment, error) {
	appointment, err := r.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status == model.AppointmentStatusWaitingAssigned {
		return appointment, nil
	}
	if !appointment.Status.CanTransitionTo(model.AppointmentStatusWaitingAssigned) {
		return appointment, apperrors.Conflict("appointment cannot be moved to assignment")
	}

	updated, err := r.appointments.UpdateStatus(ctx, appointmentID, appointment.Status, model.AppointmentStatusWaitingAssigned)
	if err != nil {
		log.Warn().Err(err).
			Str("appointment_id", appointmentID.String()).
			Msg("status transition failed, opening picker degraded")
		return appointment, nil
	}
	return updated, nil
}

// Assign binds a doctor to a waiting_assigned appointment. Both guards
// reject before any remote mutation: the appointment must still be
// waiting_assigned, and the doctor must appear in the most recently
// computed candidate list without a busy flag. The store's
// compare-and-swap is the authoritative check; the guards only keep
// obviously stale picks from reaching it.
func (r *Resolver) Assign(ctx context.Context, appointmentID, doctorID uuid.UUID) (*model.Appointment, error) {
	appointment, err := r.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusWaitingAssigned {
		return nil, r.rejectAssignment("appointment is not waiting for assignment")
	}

	state, known := r.lastBusyState(appointmentID, doctorID)
	if !known {
		return nil, r.rejectAssignment("doctor is not in the current candidate list")
	}
	if state == BusyBusy {
		return nil, r.rejectAssignment("doctor already has an appointment at this slot")
	}

	var assigned *model.Appointment
	assignFn := func(ctx context.Context) error {
		updated, err := r.appointments.AssignDoctor(ctx, appointmentID, doctorID)
		if err != nil {
			return err
		}
		assigned = updated
		return nil
	}

	if r.locker != nil {
		err = r.locker.WithAppointmentLock(ctx, appointmentID, assignFn)
	} else {
		err = assignFn(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, r.rejectAssignment("appointment is being assigned by someone else")
		}
		if r.metrics != nil {
			r.metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.AssignmentsTotal.WithLabelValues("success").Inc()
	}

	if r.notifier != nil {
		if err := r.notifier.DoctorAssigned(ctx, assigned); err != nil {
			log.Warn().Err(err).
				Str("appointment_id", appointmentID.String()).
				Msg("failed to send assignment notification")
		}
	}
	return assigned, nil
}

func (r *Resolver) rejectAssignment(message string) error {
	if r.metrics != nil {
		r.metrics.AssignmentConflicts.Inc()
		r.metrics.AssignmentsTotal.WithLabelValues("rejected").Inc()
	}
	return apperrors.Conflict(message)
}
