package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

// MaxOverridesRange максимальный период выборки исключений в днях
const MaxOverridesRange = 366

// Service сервис часов работы проката
type Service struct {
	scheduleRepo ScheduleRepository
	cache        Cache
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания. cache может быть nil.
func NewService(
	scheduleRepo ScheduleRepository,
	cache Cache,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetPolicies возвращает часы работы по видам дней.
// Публичный метод - доступен всем
func (s *Service) GetPolicies(ctx context.Context) (*models.PoliciesResponse, error) {
	schedule, err := s.scheduleRepo.GetPolicies(ctx)
	if err != nil {
		s.logger.Error("GetPolicies: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPolicies - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSchedule(schedule), nil
}

// UpdatePolicy изменяет часы работы для вида дня.
// Доступно только операторам
func (s *Service) UpdatePolicy(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpdatePolicy: kind=%s, %s-%s by actor=%d", req.Kind, req.OpenTime, req.CloseTime, req.Actor.ID)

	if !req.Actor.IsOperator() {
		s.logger.Warn("UpdatePolicy: actor=%d is not an operator", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	kind := domain.DayKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown day kind %q", ErrInvalidInput, req.Kind)
	}

	window, err := parseWindow(req.OpenTime, req.CloseTime)
	if err != nil {
		s.logger.Warn("UpdatePolicy: validation failed: %v", err)
		return nil, err
	}

	policy, err := s.scheduleRepo.UpsertPolicy(ctx, &domain.DayPolicy{
		Kind:      kind,
		OpenTime:  window.Start,
		CloseTime: window.End,
	})
	if err != nil {
		s.logger.Error("UpdatePolicy: repository error for kind=%s: %v", kind, err)
		return nil, fmt.Errorf("%w: UpdatePolicy - repository error: %v", ErrInternal, err)
	}

	// Политика влияет на все даты этого вида
	if s.cache != nil {
		if err := s.cache.InvalidateAll(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("UpdatePolicy: cache invalidation failed: %v", err)
		}
	}

	s.logger.Info("UpdatePolicy: kind=%s updated", kind)
	return models.FromDomainPolicy(policy), nil
}

// GetOverrides исключения за период.
// Публичный метод - доступен всем
func (s *Service) GetOverrides(ctx context.Context, req *models.GetOverridesRequest) (*models.OverrideListResponse, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	if req.To.Sub(req.From).Hours()/24 > MaxOverridesRange {
		return nil, fmt.Errorf("%w: period is longer than %d days", ErrInvalidInput, MaxOverridesRange)
	}

	overrides, err := s.scheduleRepo.GetOverrides(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("GetOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOverrides - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainOverrideList(overrides), nil
}

// UpsertOverride задает особые часы работы или закрывает дату.
// Доступно только операторам
func (s *Service) UpsertOverride(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("UpsertOverride: date=%s, closed=%t by actor=%d",
		req.Date.Format(domain.DateFormat), req.IsClosed, req.Actor.ID)

	if !req.Actor.IsOperator() {
		s.logger.Warn("UpsertOverride: actor=%d is not an operator", req.Actor.ID)
		return nil, ErrAccessDenied
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	override := &domain.DayOverride{Date: req.Date, IsClosed: req.IsClosed}
	if !req.IsClosed {
		if req.OpenTime == nil || req.CloseTime == nil {
			return nil, fmt.Errorf("%w: openTime and closeTime are required for an open day", ErrInvalidInput)
		}
		window, err := parseWindow(*req.OpenTime, *req.CloseTime)
		if err != nil {
			s.logger.Warn("UpsertOverride: validation failed: %v", err)
			return nil, err
		}
		override.OpenTime = &window.Start
		override.CloseTime = &window.End
	}

	saved, err := s.scheduleRepo.UpsertOverride(ctx, override)
	if err != nil {
		s.logger.Error("UpsertOverride: repository error for date=%s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: UpsertOverride - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, override.Date)
	return models.FromDomainOverride(saved), nil
}

// DeleteOverride возвращает дате обычные часы работы.
// Доступно только операторам
func (s *Service) DeleteOverride(ctx context.Context, actor domain.Actor, date time.Time) error {
	s.logger.Info("DeleteOverride: date=%s by actor=%d", date.Format(domain.DateFormat), actor.ID)

	if !actor.IsOperator() {
		s.logger.Warn("DeleteOverride: actor=%d is not an operator", actor.ID)
		return ErrAccessDenied
	}

	if err := s.scheduleRepo.DeleteOverride(ctx, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: no override for date=%s", date.Format(domain.DateFormat))
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error: %v", err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, date)
	return nil
}

func (s *Service) invalidate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), date); err != nil {
		s.logger.Warn("cache invalidation for date=%s failed: %v", date.Format(domain.DateFormat), err)
	}
}

// parseWindow разбирает и проверяет часы работы
func parseWindow(openTime, closeTime string) (domain.Interval, error) {
	start, err := validation.ParseClock(openTime)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}
	end, err := validation.ParseEndClock(closeTime)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
	}
	window, err := domain.NewInterval(start, end)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return window, nil
}
