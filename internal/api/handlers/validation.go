package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/BTR-BookingService/internal/validation"
)

const msgValidationFailed = "бронирование не прошло проверку"

// ValidationIssue нарушение, привязанное к полю запроса
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validationIssues = []struct {
	err   error
	issue ValidationIssue
}{
	{validation.ErrPastStartTime, ValidationIssue{Field: "startTime", Message: "время начала уже прошло"}},
	{validation.ErrSlotUnavailable, ValidationIssue{Field: "interval", Message: "выбранное время занято или прокат закрыт"}},
	{validation.ErrNonIntegralDuration, ValidationIssue{Field: "endTime", Message: "длительность должна быть кратна шагу бронирования"}},
	{validation.ErrInvalidBikeCount, ValidationIssue{Field: "bikeCount", Message: "недопустимое количество велосипедов"}},
	{validation.ErrInvalidDateFormat, ValidationIssue{Field: "date", Message: "некорректный формат даты, ожидается YYYY-MM-DD"}},
	{validation.ErrInvalidTimeFormat, ValidationIssue{Field: "time", Message: "некорректный формат времени, ожидается HH:MM"}},
	{validation.ErrInvalidPhone, ValidationIssue{Field: "phone", Message: "телефон должен быть в формате +7XXXXXXXXXX"}},
}

// ValidationIssues переводит нарушения в список полей
func ValidationIssues(err error) []ValidationIssue {
	errs, ok := validation.AsErrors(err)
	if !ok {
		return nil
	}

	issues := make([]ValidationIssue, 0, len(errs))
	for _, e := range errs {
		for _, vi := range validationIssues {
			if errors.Is(e, vi.err) {
				issues = append(issues, vi.issue)
				break
			}
		}
	}
	return issues
}

// RespondValidation отвечает списком нарушений, если err их содержит.
// Только занятость слота дает 409, остальные наборы 422.
func RespondValidation(w http.ResponseWriter, err error) bool {
	issues := ValidationIssues(err)
	if len(issues) == 0 {
		return false
	}

	status := http.StatusUnprocessableEntity
	if len(issues) == 1 && errors.Is(err, validation.ErrSlotUnavailable) {
		status = http.StatusConflict
	}

	RespondJSON(w, status, ErrorResponse{Error: msgValidationFailed, Details: issues})
	return true
}
