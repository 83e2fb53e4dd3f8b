package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository"
)

type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]*model.Doctor, error) {
	return s.repo.ListBySpecialty(ctx, specialtyID)
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		AccountID:      req.AccountID,
		Name:           req.Name,
		Email:          req.Email,
		SpecialtyID:    req.SpecialtyID,
		Status:         "active",
		WeeklySchedule: req.Schedule,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) UpdateWeeklySchedule(ctx context.Context, doctorID uuid.UUID, schedule []model.ScheduleEntry) error {
	if _, err := s.repo.Get(ctx, doctorID); err != nil {
		return err
	}
	return s.repo.ReplaceWeeklySchedule(ctx, doctorID, schedule)
}
