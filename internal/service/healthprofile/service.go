package healthprofile

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/phongkham/clinic-booking-api/pkg/errors"

	"github.com/phongkham/clinic-booking-api/internal/model"
	"github.com/phongkham/clinic-booking-api/internal/repository"
)

type Service struct {
	repo repository.HealthProfileRepository
}

func NewService(repo repository.HealthProfileRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.HealthProfile, error) {
	return s.repo.Get(ctx, id)
}

// GetOwned returns the profile only when it belongs to the given account.
func (s *Service) GetOwned(ctx context.Context, id, accountID uuid.UUID) (*model.HealthProfile, error) {
	profile, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.AccountID != accountID {
		return nil, apperrors.NotFound("health profile", nil)
	}
	return profile, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.HealthProfile, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, req *model.CreateHealthProfileRequest) (*model.HealthProfile, error) {
	if accountID == uuid.Nil {
		return nil, apperrors.Unauthenticated(nil)
	}

	profile := &model.HealthProfile{
		AccountID:   accountID,
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Allergies:   req.Allergies,
		Conditions:  req.Conditions,
		Medications: req.Medications,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
