package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/BTR-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgRiderNotFound      = "заполните профиль: имя и телефон нужны для подтверждения брони"
	msgOnBehalfForbidden  = "бронировать на чужой номер могут только операторы"
	msgInvalidRequest     = "некорректные данные бронирования"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(actor, h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if !handlers.RespondValidation(w, err) {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondValidation(w, err) {
			h.logger.Warn("POST /bookings - Validation failed: user_id=%d, error=%v", actor.ID, err)
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrRiderNotFound):
			h.logger.Warn("POST /bookings - Rider profile not found: user_id=%d", actor.ID)
			handlers.RespondNotFound(w, msgRiderNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - On-behalf booking by non-operator: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgOnBehalfForbidden)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d",
		result.Booking.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
