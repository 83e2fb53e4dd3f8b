package model

import (
	"strings"

	"github.com/google/uuid"
)

// ScheduleEntry is one line of a doctor's declared weekly availability:
// a weekday name plus an optional set of slot tokens. An entry with no
// slots means the doctor takes any slot that day.
type ScheduleEntry struct {
	Day       string   `json:"day"`
	TimeSlots []string `json:"time_slots,omitempty"`
}

// MatchesDay reports whether the entry covers the given weekday name.
// Upstream schedule data is inconsistently encoded ("Mon", "monday",
// "MONDAY"), so the match is a case-insensitive substring check in either
// direction.
func (e ScheduleEntry) MatchesDay(weekday string) bool {
	day := strings.ToLower(strings.TrimSpace(e.Day))
	want := strings.ToLower(strings.TrimSpace(weekday))
	if day == "" || want == "" {
		return false
	}
	return strings.Contains(day, want) || strings.Contains(want, day)
}

// CoversSlot reports whether the entry admits the given slot token. An
// entry that declares no slots covers every slot.
func (e ScheduleEntry) CoversSlot(slot string) bool {
	if len(e.TimeSlots) == 0 {
		return true
	}
	for _, s := range e.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Doctor struct {
	Base
	AccountID      uuid.UUID       `db:"account_id" json:"account_id"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	SpecialtyID    uuid.UUID       `db:"specialty_id" json:"specialty_id"`
	Status         string          `db:"status" json:"status"`
	WeeklySchedule []ScheduleEntry `db:"-" json:"weekly_schedule"`
}

// AvailableOn reports whether the doctor's weekly schedule contains an
// entry matching the weekday and admitting the slot.
func (d *Doctor) AvailableOn(weekday, slot string) bool {
	for _, entry := range d.WeeklySchedule {
		if entry.MatchesDay(weekday) && entry.CoversSlot(slot) {
			return true
		}
	}
	return false
}

type CreateDoctorRequest struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	SpecialtyID uuid.UUID       `json:"specialty_id" binding:"required"`
	Schedule    []ScheduleEntry `json:"weekly_schedule"`
}
