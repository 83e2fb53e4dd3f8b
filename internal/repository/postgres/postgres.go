package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/phongkham/clinic-booking-api/internal/repository"
)

type accountRepository struct {
	db *sqlx.DB
}

type specialtyRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type healthProfileRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func NewSpecialtyRepository(db *sqlx.DB) repository.SpecialtyRepository {
	return &specialtyRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewHealthProfileRepository(db *sqlx.DB) repository.HealthProfileRepository {
	return &healthProfileRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}
