package rider_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/service/riders"
	"github.com/m04kA/BTR-BookingService/internal/service/riders/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgProfileNotFound    = "профиль не заполнен"
	msgInvalidProfile     = "некорректные данные профиля: нужны имя и телефон в формате +7XXXXXXXXXX"
)

type Handler struct {
	service RiderService
	logger  Logger
}

func NewHandler(service RiderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/riders/me
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	riderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), riderID)
	if err != nil {
		if errors.Is(err, riders.ErrRiderNotFound) {
			handlers.RespondNotFound(w, msgProfileNotFound)
			return
		}
		h.logger.Error("GET /riders/me - Failed to get profile: rider_id=%d, error=%v", riderID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}

// HandlePut PUT /api/v1/riders/me
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	riderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /riders/me - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RiderID = riderID

	profile, err := h.service.UpsertProfile(r.Context(), &req)
	if err != nil {
		if errors.Is(err, riders.ErrInvalidInput) {
			h.logger.Warn("PUT /riders/me - Invalid profile: rider_id=%d, error=%v", riderID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidProfile)
			return
		}
		h.logger.Error("PUT /riders/me - Failed to save profile: rider_id=%d, error=%v", riderID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /riders/me - Profile saved: rider_id=%d", riderID)
	handlers.RespondJSON(w, http.StatusOK, profile)
}
