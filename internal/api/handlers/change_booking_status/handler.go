package change_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
	transitionStatus "github.com/m04kA/BTR-BookingService/internal/usecase/transition_status"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус, ожидается confirmed, canceled или completed"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgSameStatus         = "бронь уже в этом статусе"
	msgInvalidTransition  = "такой переход статуса невозможен"
	msgStatusConflict     = "статус брони только что изменился, обновите данные"
)

type Handler struct {
	useCase TransitionStatusUseCase
	logger  Logger
}

func NewHandler(useCase TransitionStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status := domain.BookingStatus(req.Status)
	if !status.Valid() || status == domain.StatusPending {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid status: %s", req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionStatus.Request{
		BookingID: bookingID,
		Status:    status,
		Actor:     actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, transitionStatus.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionStatus.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d, user_id=%d", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionStatus.ErrNoOpTransition):
			handlers.RespondConflict(w, msgSameStatus)

		case errors.Is(err, transitionStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTransition)

		case errors.Is(err, transitionStatus.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{id}/status - Lost race: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStatusConflict)

		case errors.Is(err, transitionStatus.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to change status: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status changed: booking_id=%d, %s -> %s, user_id=%d",
		bookingID, result.Previous, result.Booking.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, &ChangeStatusResponse{
		Booking:        models.FromDomainBooking(result.Booking),
		PreviousStatus: string(result.Previous),
	})
}
