package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
)

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	busy         bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.appointments {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return f.List(ctx, nil)
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	f.appointments[a.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
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

func (f *fakeAppointmentRepo) AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	a.DoctorID = &doctorID
	a.Status = model.AppointmentStatusPending
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) HasBookingAt(ctx context.Context, doctorID uuid.UUID, day time.Time, slot string) (bool, error) {
	return f.busy, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.AccountID == accountID {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (f *fakeDoctorRepo) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) ([]model.ScheduleEntry, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) ReplaceWeeklySchedule(ctx context.Context, doctorID uuid.UUID, schedule []model.ScheduleEntry) error {
	return nil
}

type recordingNotifier struct {
	created   int
	assigned  int
	confirmed int
	cancelled int
}

func (n *recordingNotifier) AppointmentCreated(ctx context.Context, a *model.Appointment) error {
	n.created++
	return nil
}

func (n *recordingNotifier) DoctorAssigned(ctx context.Context, a *model.Appointment) error {
	n.assigned++
	return nil
}

func (n *recordingNotifier) AppointmentConfirmed(ctx context.Context, a *model.Appointment) error {
	n.confirmed++
	return nil
}

func (n *recordingNotifier) AppointmentCancelled(ctx context.Context, a *model.Appointment) error {
	n.cancelled++
	return nil
}

type serviceFixture struct {
	service     *Service
	repo        *fakeAppointmentRepo
	doctors     *fakeDoctorRepo
	notifier    *recordingNotifier
	specialtyID uuid.UUID
	doctorID    uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	specialtyID := uuid.New()
	doctorID := uuid.New()

	repo := newFakeAppointmentRepo()
	doctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {Base: model.Base{ID: doctorID}, SpecialtyID: specialtyID},
	}}
	notifier := &recordingNotifier{}

	return &serviceFixture{
		service:     NewService(repo, doctors, notifier, nil),
		repo:        repo,
		doctors:     doctors,
		notifier:    notifier,
		specialtyID: specialtyID,
		doctorID:    doctorID,
	}
}

func (f *serviceFixture) validRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		BookerID:        uuid.New(),
		HealthProfileID: uuid.New(),
		SpecialtyID:     f.specialtyID,
		DoctorID:        &f.doctorID,
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		TimeSlot:        "08:00-08:30",
		Reason:          "persistent cough",
	}
}

func TestCreateWithDoctorIsPending(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.Create(context.Background(), f.validRequest())
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, created.Status)
	assert.Equal(t, 1, f.notifier.created)
}

func TestCreateWithoutDoctorIsWaitingAssigned(t *testing.T) {
	f := newServiceFixture(t)

	req := f.validRequest()
	req.DoctorID = nil

	created, err := f.service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusWaitingAssigned, created.Status)
	assert.Nil(t, created.DoctorID)
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.CreateAppointmentRequest)
	}{
		{"missing booker", func(r *model.CreateAppointmentRequest) { r.BookerID = uuid.Nil }},
		{"missing profile", func(r *model.CreateAppointmentRequest) { r.HealthProfileID = uuid.Nil }},
		{"missing specialty", func(r *model.CreateAppointmentRequest) { r.SpecialtyID = uuid.Nil }},
		{"off-grid slot", func(r *model.CreateAppointmentRequest) { r.TimeSlot = "07:00-07:30" }},
		{"short reason", func(r *model.CreateAppointmentRequest) { r.Reason = " x " }},
		{"past date", func(r *model.CreateAppointmentRequest) { r.AppointmentDate = time.Now().AddDate(0, 0, -2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validRequest()
			tt.mutate(req)
			_, err := f.service.Create(ctx, req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
		})
	}
	assert.Empty(t, f.repo.appointments)
}

func TestCreateRejectsForeignDoctor(t *testing.T) {
	f := newServiceFixture(t)

	otherID := uuid.New()
	f.doctors.doctors[otherID] = &model.Doctor{
		Base:        model.Base{ID: otherID},
		SpecialtyID: uuid.New(),
	}

	req := f.validRequest()
	req.DoctorID = &otherID

	_, err := f.service.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateRejectsDoubleBooking(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.busy = true

	_, err := f.service.Create(context.Background(), f.validRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestConfirmLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validRequest())
	require.NoError(t, err)

	confirmed, err := f.service.Confirm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
	assert.Equal(t, 1, f.notifier.confirmed)

	_, err = f.service.Confirm(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	completed, err := f.service.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)

	_, err = f.service.Cancel(ctx, created.ID, "too late")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestConfirmRequiresDoctor(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := f.validRequest()
	req.DoctorID = nil
	created, err := f.service.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.service.Confirm(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCancelRecordsReason(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validRequest())
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, created.ID, "feeling better")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "feeling better", *cancelled.CancelReason)
	assert.Equal(t, 1, f.notifier.cancelled)

	_, err = f.service.Cancel(ctx, created.ID, "again")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validRequest())
	require.NoError(t, err)

	_, err = f.service.Complete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}
