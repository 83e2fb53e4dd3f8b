package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

type fakeDoctorDirectory struct {
	doctors []*model.Doctor
	err     error
	calls   int
}

func (f *fakeDoctorDirectory) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error) {
	f.calls++
	return f.doctors, f.err
}

type fakeAppointmentStore struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	busy         map[uuid.UUID]bool
	busyErr      map[uuid.UUID]error
	assignErr    error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{
		appointments: make(map[uuid.UUID]*model.Appointment),
		busy:         make(map[uuid.UUID]bool),
		busyErr:      make(map[uuid.UUID]error),
	}
}

func (f *fakeAppointmentStore) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentStore) HasBookingAt(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.busyErr[doctorID]; err != nil {
		return false, err
	}
	return f.busy[doctorID], nil
}

func (f *fakeAppointmentStore) AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	if a.Status != model.AppointmentStatusWaitingAssigned {
		return nil, apperrors.Conflict("appointment status changed")
	}
	a.DoctorID = &doctorID
	a.Status = model.AppointmentStatusPending
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	if a.Status != from {
		return nil, apperrors.Conflict("appointment status changed")
	}
	a.Status = to
	copied := *a
	return &copied, nil
}

func mondaysDoctor(specialtyID uuid.UUID, name string) *model.Doctor {
	return &model.Doctor{
		Base:        model.Base{ID: uuid.New()},
		Name:        name,
		SpecialtyID: specialtyID,
		WeeklySchedule: []model.ScheduleEntry{
			{Day: "Monday"},
		},
	}
}

// nextMonday returns a future Monday at UTC midnight.
func nextMonday() time.Time {
	d := model.NormalizeToUTCDay(time.Now()).AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

type resolverFixture struct {
	resolver    *Resolver
	doctors     *fakeDoctorDirectory
	store       *fakeAppointmentStore
	specialtyID uuid.UUID
	target      Target
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()

	specialtyID := uuid.New()
	doctors := &fakeDoctorDirectory{}
	store := newFakeAppointmentStore()

	appointment := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		SpecialtyID:     specialtyID,
		AppointmentDate: nextMonday(),
		TimeSlot:        "08:00-08:30",
		Status:          model.AppointmentStatusWaitingAssigned,
	}
	store.appointments[appointment.ID] = appointment

	return &resolverFixture{
		resolver:    NewResolver(doctors, store, nil, nil, nil),
		doctors:     doctors,
		store:       store,
		specialtyID: specialtyID,
		target:      TargetFromAppointment(appointment),
	}
}

func TestLoadCandidatesRequiresSpecialty(t *testing.T) {
	f := newResolverFixture(t)

	target := f.target
	target.Specialty = model.Ref[model.Specialty]{}

	candidates, err := f.resolver.LoadCandidates(context.Background(), target)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrMissingSpecialty))
	assert.Empty(t, candidates)
}

func TestLoadCandidatesExcludesScheduleMismatch(t *testing.T) {
	f := newResolverFixture(t)

	onSchedule := mondaysDoctor(f.specialtyID, "Dr. Monday")
	offSchedule := &model.Doctor{
		Base:        model.Base{ID: uuid.New()},
		Name:        "Dr. Tuesday",
		SpecialtyID: f.specialtyID,
		WeeklySchedule: []model.ScheduleEntry{
			{Day: "Tuesday"},
		},
	}
	wrongSlot := &model.Doctor{
		Base:        model.Base{ID: uuid.New()},
		Name:        "Dr. Afternoon",
		SpecialtyID: f.specialtyID,
		WeeklySchedule: []model.ScheduleEntry{
			{Day: "Monday", TimeSlots: []string{"14:00-14:30"}},
		},
	}
	f.doctors.doctors = []*model.Doctor{onSchedule, offSchedule, wrongSlot}

	candidates, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, onSchedule.ID, candidates[0].Doctor.ID)
	assert.True(t, candidates[0].MatchesSchedule)
}

func TestLoadCandidatesBusyStates(t *testing.T) {
	f := newResolverFixture(t)

	free := mondaysDoctor(f.specialtyID, "Dr. Free")
	busy := mondaysDoctor(f.specialtyID, "Dr. Busy")
	flaky := mondaysDoctor(f.specialtyID, "Dr. Flaky")
	f.doctors.doctors = []*model.Doctor{free, busy, flaky}
	f.store.busy[busy.ID] = true
	f.store.busyErr[flaky.ID] = errors.New("timeout")

	candidates, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	states := make(map[uuid.UUID]BusyState)
	for _, c := range candidates {
		states[c.Doctor.ID] = c.Busy
	}
	assert.Equal(t, BusyFree, states[free.ID])
	assert.Equal(t, BusyBusy, states[busy.ID])
	assert.Equal(t, BusyUnknown, states[flaky.ID])
}

func TestLoadCandidatesSelectable(t *testing.T) {
	free := DoctorCandidate{MatchesSchedule: true, Busy: BusyFree}
	busy := DoctorCandidate{MatchesSchedule: true, Busy: BusyBusy}
	unknown := DoctorCandidate{MatchesSchedule: true, Busy: BusyUnknown}

	assert.True(t, free.Selectable())
	assert.False(t, busy.Selectable())
	assert.True(t, unknown.Selectable())
}

func TestLoadCandidatesRemoteFailure(t *testing.T) {
	f := newResolverFixture(t)
	f.doctors.err = errors.New("directory unavailable")

	_, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrRemote))
}

func TestLoadCandidatesIdempotent(t *testing.T) {
	f := newResolverFixture(t)

	a := mondaysDoctor(f.specialtyID, "Dr. A")
	b := mondaysDoctor(f.specialtyID, "Dr. B")
	f.doctors.doctors = []*model.Doctor{a, b}
	f.store.busy[b.ID] = true

	first, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)
	second, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Doctor.ID, second[i].Doctor.ID)
		assert.Equal(t, first[i].Busy, second[i].Busy)
	}
}

func TestAssignHappyPath(t *testing.T) {
	f := newResolverFixture(t)

	doctor := mondaysDoctor(f.specialtyID, "Dr. Monday")
	f.doctors.doctors = []*model.Doctor{doctor}

	_, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)

	assigned, err := f.resolver.Assign(context.Background(), f.target.ID, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.DoctorID)
	assert.Equal(t, doctor.ID, *assigned.DoctorID)
	assert.Equal(t, model.AppointmentStatusPending, assigned.Status)
}

func TestAssignRejectsWithoutCandidateLoad(t *testing.T) {
	f := newResolverFixture(t)

	_, err := f.resolver.Assign(context.Background(), f.target.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestAssignRejectsBusyDoctor(t *testing.T) {
	f := newResolverFixture(t)

	doctor := mondaysDoctor(f.specialtyID, "Dr. Busy")
	f.doctors.doctors = []*model.Doctor{doctor}
	f.store.busy[doctor.ID] = true

	_, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)

	_, err = f.resolver.Assign(context.Background(), f.target.ID, doctor.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestAssignRejectsWrongStatus(t *testing.T) {
	f := newResolverFixture(t)

	doctor := mondaysDoctor(f.specialtyID, "Dr. Monday")
	f.doctors.doctors = []*model.Doctor{doctor}
	_, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)

	f.store.appointments[f.target.ID].Status = model.AppointmentStatusConfirmed

	_, err = f.resolver.Assign(context.Background(), f.target.ID, doctor.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestAssignUnknownBusyStateAllowed(t *testing.T) {
	f := newResolverFixture(t)

	doctor := mondaysDoctor(f.specialtyID, "Dr. Flaky")
	f.doctors.doctors = []*model.Doctor{doctor}
	f.store.busyErr[doctor.ID] = errors.New("timeout")

	_, err := f.resolver.LoadCandidates(context.Background(), f.target)
	require.NoError(t, err)

	assigned, err := f.resolver.Assign(context.Background(), f.target.ID, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, assigned.Status)
}

func TestEnsureAssignable(t *testing.T) {
	f := newResolverFixture(t)
	ctx := context.Background()

	t.Run("already waiting", func(t *testing.T) {
		got, err := f.resolver.EnsureAssignable(ctx, f.target.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusWaitingAssigned, got.Status)
	})

	t.Run("pending reopens", func(t *testing.T) {
		f.store.appointments[f.target.ID].Status = model.AppointmentStatusPending
		got, err := f.resolver.EnsureAssignable(ctx, f.target.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusWaitingAssigned, got.Status)
	})

	t.Run("terminal rejected", func(t *testing.T) {
		f.store.appointments[f.target.ID].Status = model.AppointmentStatusCompleted
		_, err := f.resolver.EnsureAssignable(ctx, f.target.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})
}

func TestTargetFromAppointment(t *testing.T) {
	specialtyID := uuid.New()
	a := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		SpecialtyID:     specialtyID,
		AppointmentDate: nextMonday(),
		TimeSlot:        "09:00-09:30",
		Status:          model.AppointmentStatusWaitingAssigned,
	}

	target := TargetFromAppointment(a)
	assert.Equal(t, a.ID, target.ID)
	assert.Equal(t, specialtyID, target.Specialty.ResolveID())
	assert.Equal(t, "09:00-09:30", target.TimeSlot)
}
