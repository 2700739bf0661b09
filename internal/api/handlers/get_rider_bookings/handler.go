package get_rider_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings"
	"github.com/m04kA/BTR-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRiderID = "некорректный ID райдера"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidStatus  = "некорректный статус"
	msgForbidden      = "доступ запрещен"
)

// selfAlias позволяет запрашивать свои брони без знания своего ID
const selfAlias = "me"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/riders/{riderId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /riders/{riderId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	riderID := actor.ID
	if raw := mux.Vars(r)["riderId"]; raw != selfAlias {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /riders/{riderId}/bookings - Invalid rider ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRiderID)
			return
		}
		riderID = parsed
	}

	// Получаем status из query параметров (опционально)
	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	result, err := h.service.GetRiderBookings(r.Context(), &models.GetRiderBookingsRequest{
		Actor:   actor,
		RiderID: riderID,
		Status:  statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /riders/{riderId}/bookings - Access denied: rider_id=%d, user_id=%d", riderID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /riders/{riderId}/bookings - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /riders/{riderId}/bookings - Failed to get bookings: rider_id=%d, error=%v",
				riderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /riders/{riderId}/bookings - Bookings retrieved successfully: rider_id=%d, count=%d",
		riderID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
