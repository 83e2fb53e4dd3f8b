package model

import (
	"time"

	"github.com/google/uuid"
)

// HealthProfile is the medical-record identity a booking is made on behalf
// of. It is owned by an account (the booker) and is distinct from it: one
// account may hold profiles for family members.
type HealthProfile struct {
	Base
	AccountID   uuid.UUID  `db:"account_id" json:"account_id"`
	FullName    string     `db:"full_name" json:"full_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	Allergies   string     `db:"allergies" json:"allergies,omitempty"`
	Conditions  string     `db:"conditions" json:"conditions,omitempty"`
	Medications string     `db:"medications" json:"medications,omitempty"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
}

type CreateHealthProfileRequest struct {
	FullName    string     `json:"full_name" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" binding:"omitempty,oneof=male female other"`
	Allergies   string     `json:"allergies"`
	Conditions  string     `json:"conditions"`
	Medications string     `json:"medications"`
	Notes       string     `json:"notes"`
}
