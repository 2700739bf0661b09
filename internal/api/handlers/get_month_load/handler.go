package get_month_load

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	getMonthLoad "github.com/m04kA/BTR-BookingService/internal/usecase/get_month_load"
)

const (
	msgInvalidYear  = "некорректный год"
	msgInvalidMonth = "некорректный месяц, ожидается 1-12"
)

type Handler struct {
	useCase GetMonthLoadUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthLoadUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/{year}/{month}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		h.logger.Warn("GET /calendar/{year}/{month} - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		h.logger.Warn("GET /calendar/{year}/{month} - Invalid month: %s", vars["month"])
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getMonthLoad.Request{Year: year, Month: time.Month(month)})
	if err != nil {
		switch {
		case errors.Is(err, getMonthLoad.ErrInvalidInput):
			h.logger.Warn("GET /calendar/{year}/{month} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYear)

		default:
			h.logger.Error("GET /calendar/{year}/{month} - Failed to get month load: %d-%d, error=%v", year, month, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
