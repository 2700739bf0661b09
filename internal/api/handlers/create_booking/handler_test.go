package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	createBooking "github.com/m04kA/BTR-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeUseCase struct {
	err error
	got *createBooking.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{Booking: &domain.Booking{
		ID:          7,
		RiderID:     req.Actor.ID,
		BookingDate: req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BikeCount:   req.BikeCount,
		Status:      domain.StatusPending,
	}}, nil
}

const validBody = `{"bookingDate":"2026-10-19","startTime":"18:00","endTime":"20:00","bikeCount":2}`

func serve(uc *fakeUseCase, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: 10, Role: domain.RoleRider}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, time.UTC, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, validBody, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "18:00", got["startTime"])

	require.NotNil(t, uc.got)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.Equal(t, types.NewClock(20, 0), uc.got.EndTime)
}

func TestHandler_AcceptsEndOfDay(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, `{"bookingDate":"2026-10-19","startTime":"22:00","endTime":"24:00","bikeCount":1}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, types.Clock(types.MinutesPerDay), uc.got.EndTime)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		withActor  bool
		ucErr      error
		wantStatus int
		wantFields []string
	}{
		{name: "no actor", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "broken json", body: `{`, withActor: true, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"bikes":2}`, withActor: true, wantStatus: http.StatusBadRequest},
		{
			name:       "bad date",
			body:       `{"bookingDate":"19.10.2026","startTime":"18:00","endTime":"20:00","bikeCount":2}`,
			withActor:  true,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"date"},
		},
		{
			name:       "slot taken",
			body:       validBody,
			withActor:  true,
			ucErr:      validation.Errors{validation.ErrSlotUnavailable},
			wantStatus: http.StatusConflict,
			wantFields: []string{"interval"},
		},
		{
			name:       "several violations",
			body:       validBody,
			withActor:  true,
			ucErr:      validation.Errors{validation.ErrPastStartTime, validation.ErrInvalidBikeCount},
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"startTime", "bikeCount"},
		},
		{name: "no profile", body: validBody, withActor: true, ucErr: createBooking.ErrRiderNotFound, wantStatus: http.StatusNotFound},
		{name: "on behalf by rider", body: validBody, withActor: true, ucErr: createBooking.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", body: validBody, withActor: true, ucErr: fmt.Errorf("%w: db down", createBooking.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.ucErr}, tt.body, tt.withActor)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if len(tt.wantFields) == 0 {
				return
			}
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			fields := make([]string, 0, len(resp.Details))
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
