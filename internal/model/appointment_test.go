package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusWaitingAssigned, AppointmentStatusPending, true},
		{AppointmentStatusWaitingAssigned, AppointmentStatusConfirmed, false},
		{AppointmentStatusWaitingAssigned, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusWaitingAssigned, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusPending, false},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusRequiresDoctor(t *testing.T) {
	assert.False(t, AppointmentStatusWaitingAssigned.RequiresDoctor())
	assert.False(t, AppointmentStatusPending.RequiresDoctor())
	assert.True(t, AppointmentStatusConfirmed.RequiresDoctor())
	assert.True(t, AppointmentStatusCompleted.RequiresDoctor())
}

func TestRequestedStatus(t *testing.T) {
	req := &CreateAppointmentRequest{}
	assert.Equal(t, AppointmentStatusWaitingAssigned, req.RequestedStatus())

	nilID := uuid.Nil
	req.DoctorID = &nilID
	assert.Equal(t, AppointmentStatusWaitingAssigned, req.RequestedStatus())

	id := uuid.New()
	req.DoctorID = &id
	assert.Equal(t, AppointmentStatusPending, req.RequestedStatus())
}

func TestSameSlot(t *testing.T) {
	morning := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 9, 7, 22, 30, 0, 0, time.UTC)
	nextDay := morning.AddDate(0, 0, 1)

	a := &Appointment{AppointmentDate: morning, TimeSlot: "08:00-08:30"}

	assert.True(t, a.SameSlot(&Appointment{AppointmentDate: evening, TimeSlot: "08:00-08:30"}))
	assert.False(t, a.SameSlot(&Appointment{AppointmentDate: morning, TimeSlot: "09:00-09:30"}))
	assert.False(t, a.SameSlot(&Appointment{AppointmentDate: nextDay, TimeSlot: "08:00-08:30"}))
}

func TestScheduleEntryMatching(t *testing.T) {
	entry := ScheduleEntry{Day: "Mon"}
	assert.True(t, entry.MatchesDay("Monday"))
	assert.True(t, entry.MatchesDay("monday"))
	assert.False(t, entry.MatchesDay("Tuesday"))
	assert.False(t, ScheduleEntry{}.MatchesDay("Monday"))

	open := ScheduleEntry{Day: "Monday"}
	assert.True(t, open.CoversSlot("08:00-08:30"))

	limited := ScheduleEntry{Day: "Monday", TimeSlots: []string{"14:00-14:30"}}
	assert.True(t, limited.CoversSlot("14:00-14:30"))
	assert.False(t, limited.CoversSlot("08:00-08:30"))
}

func TestDefaultSlotGrid(t *testing.T) {
	grid := DefaultSlotGrid()

	assert.True(t, grid.Contains("08:00-08:30"))
	assert.True(t, grid.Contains("17:00-17:30"))
	assert.False(t, grid.Contains("12:00-12:30"))
	assert.False(t, grid.Contains("08:15-08:45"))
	assert.False(t, grid.Contains(""))
}

func TestNormalizeToUTCDay(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	local := time.Date(2026, 9, 7, 2, 30, 0, 0, loc)

	day := NormalizeToUTCDay(local)
	assert.Equal(t, time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), day)
	assert.True(t, SameCalendarDay(local, day))
}
