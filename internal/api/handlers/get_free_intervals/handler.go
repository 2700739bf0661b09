package get_free_intervals

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	getFreeIntervals "github.com/m04kA/BTR-BookingService/internal/usecase/get_free_intervals"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

const (
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBookingID = "некорректный ID исключаемой брони"
	msgInvalidStart     = "некорректный формат времени начала, ожидается HH:MM"
	msgBookingNotFound  = "исключаемая бронь не найдена"
	msgInvalidRequest   = "некорректные параметры запроса"
)

type Handler struct {
	useCase  GetFreeIntervalsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetFreeIntervalsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/free-intervals
// Query params: date (required, YYYY-MM-DD), excludeBookingId, start (HH:MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /free-intervals - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := validation.ParseDate(dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /free-intervals - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getFreeIntervals.Request{Date: date}

	if raw := query.Get("excludeBookingId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /free-intervals - Invalid excludeBookingId: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidBookingID)
			return
		}
		req.ExcludeBookingID = &id
	}

	if raw := query.Get("start"); raw != "" {
		start, err := validation.ParseClock(raw)
		if err != nil {
			h.logger.Warn("GET /free-intervals - Invalid start: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStart)
			return
		}
		req.Start = &start
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getFreeIntervals.ErrBookingNotFound):
			h.logger.Warn("GET /free-intervals - Excluded booking not found: %v", err)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, getFreeIntervals.ErrInvalidInput):
			h.logger.Warn("GET /free-intervals - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /free-intervals - Failed to get free intervals: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
