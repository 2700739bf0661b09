package riders

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	riderRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/rider"
	"github.com/m04kA/BTR-BookingService/internal/service/riders/models"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

// Service профили райдеров
type Service struct {
	riderRepo RiderRepository
	logger    Logger
}

func NewService(riderRepo RiderRepository, logger Logger) *Service {
	return &Service{
		riderRepo: riderRepo,
		logger:    logger,
	}
}

// GetProfile профиль текущего пользователя вместе с рангом
func (s *Service) GetProfile(ctx context.Context, riderID int64) (*models.ProfileResponse, error) {
	rider, err := s.riderRepo.GetByID(ctx, riderID)
	if err != nil {
		if errors.Is(err, riderRepo.ErrRiderNotFound) {
			s.logger.Warn("GetProfile: rider id=%d not found", riderID)
			return nil, ErrRiderNotFound
		}
		s.logger.Error("GetProfile: repository error for rider id=%d: %v", riderID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainRider(rider), nil
}

// UpsertProfile создает или обновляет профиль. Ранг считается по поездкам и здесь не меняется.
func (s *Service) UpsertProfile(ctx context.Context, req *models.UpsertProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("UpsertProfile: rider id=%d", req.RiderID)

	rider, err := s.normalize(req)
	if err != nil {
		s.logger.Warn("UpsertProfile: validation failed for rider id=%d: %v", req.RiderID, err)
		return nil, err
	}

	saved, err := s.riderRepo.Upsert(ctx, rider)
	if err != nil {
		s.logger.Error("UpsertProfile: repository error for rider id=%d: %v", req.RiderID, err)
		return nil, fmt.Errorf("%w: UpsertProfile - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRider(saved), nil
}

func (s *Service) normalize(req *models.UpsertProfileRequest) (*domain.Rider, error) {
	if req.RiderID <= 0 {
		return nil, fmt.Errorf("%w: riderID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
		}
	}

	return &domain.Rider{ID: req.RiderID, Name: name, Phone: phone, Email: email}, nil
}
