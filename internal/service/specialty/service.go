package specialty

import (
	"context"

	"github.com/google/uuid"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository"
)

type Service struct {
	repo repository.SpecialtyRepository
}

func NewService(repo repository.SpecialtyRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*model.Specialty, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req *model.CreateSpecialtyRequest) (*model.Specialty, error) {
	specialty := &model.Specialty{
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
	}
	if err := s.repo.Create(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}
