package day_override

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule"
	"github.com/m04kA/BTR-BookingService/internal/service/schedule/models"
	"github.com/m04kA/BTR-BookingService/internal/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidOverride    = "некорректное исключение: для рабочего дня нужны openTime и closeTime, начало раньше конца"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "изменять расписание могут только операторы"
	msgNotFound           = "исключение на эту дату не задано"
)

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

// HandleUpsert PUT /api/v1/schedule/overrides/{date}
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	actor, date, ok := h.parse(w, r)
	if !ok {
		return
	}

	var req models.UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor
	req.Date = date

	override, err := h.service.UpsertOverride(r.Context(), &req)
	if err != nil {
		h.respondError(w, "PUT", err)
		return
	}

	h.logger.Info("PUT /schedule/overrides/{date} - Override saved: date=%s, user_id=%d", override.Date, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, override)
}

// HandleDelete DELETE /api/v1/schedule/overrides/{date}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, date, ok := h.parse(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOverride(r.Context(), actor, date); err != nil {
		h.respondError(w, "DELETE", err)
		return
	}

	h.logger.Info("DELETE /schedule/overrides/{date} - Override removed: date=%s, user_id=%d",
		date.Format(domain.DateFormat), actor.ID)
	handlers.RespondNoContent(w)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (domain.Actor, time.Time, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("%s /schedule/overrides/{date} - Missing user ID", r.Method)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return domain.Actor{}, time.Time{}, false
	}

	date, err := validation.ParseDate(mux.Vars(r)["date"], h.location)
	if err != nil {
		h.logger.Warn("%s /schedule/overrides/{date} - Invalid date: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return domain.Actor{}, time.Time{}, false
	}

	return actor, date, true
}

func (h *Handler) respondError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, schedule.ErrAccessDenied):
		h.logger.Warn("%s /schedule/overrides/{date} - Access denied", method)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s /schedule/overrides/{date} - Invalid override: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidOverride)

	case errors.Is(err, schedule.ErrOverrideNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	default:
		h.logger.Error("%s /schedule/overrides/{date} - Failed: %v", method, err)
		handlers.RespondInternalError(w)
	}
}
