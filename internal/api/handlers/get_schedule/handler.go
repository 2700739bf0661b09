package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

const (
	msgInvalidFrom   = "некорректная дата from, ожидается YYYY-MM-DD"
	msgInvalidTo     = "некорректная дата to, ожидается YYYY-MM-DD"
	msgInvalidPeriod = "некорректный период"
)

// DefaultOverridesDays период по умолчанию, если to не указан
const DefaultOverridesDays = 31

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// HandlePolicies GET /api/v1/schedule/policies
func (h *Handler) HandlePolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.GetPolicies(r.Context())
	if err != nil {
		h.logger.Error("GET /schedule/policies - Failed to get policies: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, policies)
}

// HandleOverrides GET /api/v1/schedule/overrides
// Query params: from (по умолчанию сегодня), to (по умолчанию from + 31 день)
func (h *Handler) HandleOverrides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	now := time.Now().In(h.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
	if raw := query.Get("from"); raw != "" {
		parsed, err := validation.ParseDate(raw, h.location)
		if err != nil {
			h.logger.Warn("GET /schedule/overrides - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = parsed
	}

	to := from.AddDate(0, 0, DefaultOverridesDays)
	if raw := query.Get("to"); raw != "" {
		parsed, err := validation.ParseDate(raw, h.location)
		if err != nil {
			h.logger.Warn("GET /schedule/overrides - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTo)
			return
		}
		to = parsed
	}

	overrides, err := h.service.GetOverrides(r.Context(), &models.GetOverridesRequest{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /schedule/overrides - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /schedule/overrides - Failed to get overrides: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overrides)
}
