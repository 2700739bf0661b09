package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
)

// Service сервис чтения и удаления бронирований
type Service struct {
	bookingRepo BookingRepository
	cache       Cache
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований. cache может быть nil.
func NewService(
	bookingRepo BookingRepository,
	cache Cache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		cache:       cache,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронь может её владелец или оператор.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d(%s)", id, actor.ID, actor.Role)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanView(booking) {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetRiderBookings история бронирований райдера, опционально по статусу.
// Райдер видит только свои брони, оператор любые.
func (s *Service) GetRiderBookings(ctx context.Context, req *models.GetRiderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetRiderBookings: fetching bookings for rider=%d, status=%v", req.RiderID, req.Status)

	if req.RiderID <= 0 {
		return nil, fmt.Errorf("%w: riderID must be positive", ErrInvalidInput)
	}
	if !req.Actor.IsOperator() && req.Actor.ID != req.RiderID {
		s.logger.Warn("GetRiderBookings: actor=%d is not allowed to list bookings of rider=%d", req.Actor.ID, req.RiderID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetRiderBookings: invalid status=%s for rider=%d", *req.Status, req.RiderID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByRiderID(ctx, req.RiderID, domainStatus)
	if err != nil {
		s.logger.Error("GetRiderBookings: repository error for rider=%d: %v", req.RiderID, err)
		return nil, fmt.Errorf("%w: GetRiderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRiderBookings: fetched %d bookings for rider=%d", len(bookings), req.RiderID)
	return models.FromDomainBookingList(bookings), nil
}

// GetDayBookings все брони на дату, включая отмененные. Только для операторов.
func (s *Service) GetDayBookings(ctx context.Context, date time.Time, actor domain.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("GetDayBookings: fetching bookings for date=%s by actor=%d", date.Format(domain.DateFormat), actor.ID)

	if !actor.IsOperator() {
		s.logger.Warn("GetDayBookings: actor=%d is not an operator", actor.ID)
		return nil, ErrAccessDenied
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{StartDate: &date, EndDate: &date})
	if err != nil {
		s.logger.Error("GetDayBookings: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDayBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Delete физически удаляет бронь. Удалить может только владелец.
func (s *Service) Delete(ctx context.Context, id int64, actor domain.Actor) error {
	s.logger.Info("Delete: deleting booking id=%d by actor=%d(%s)", id, actor.ID, actor.Role)

	var deleted *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.Owns(booking) {
			return ErrAccessDenied
		}
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = booking
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("Delete: booking id=%d not found", id)
		return ErrBookingNotFound
	case errors.Is(err, ErrAccessDenied):
		s.logger.Warn("Delete: access denied for actor=%d to booking id=%d", actor.ID, id)
		return ErrAccessDenied
	default:
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Освободившийся интервал снова виден в свободном времени
	if s.cache != nil && deleted.OccupiesSlot() {
		if err := s.cache.Invalidate(context.WithoutCancel(ctx), deleted.BookingDate); err != nil {
			s.logger.Warn("Delete: cache invalidation for booking id=%d failed: %v", id, err)
		}
	}

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}
