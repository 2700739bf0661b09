package get_free_intervals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	getFreeIntervals "github.com/m04kA/BTR-BookingService/internal/usecase/get_free_intervals"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

type fakeUseCase struct {
	err error
	got *getFreeIntervals.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getFreeIntervals.Request) (*getFreeIntervals.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	window := domain.Interval{Start: types.NewClock(16, 0), End: types.NewClock(22, 0)}
	return &getFreeIntervals.Response{
		Date:        req.Date,
		Kind:        domain.DayKindWorkday,
		Open:        true,
		Window:      &window,
		Free:        []domain.Interval{{Start: types.NewClock(16, 0), End: types.NewClock(18, 0)}},
		StartTimes:  []types.Clock{types.NewClock(16, 0), types.NewClock(17, 0)},
		Durations:   []int{1, 2},
		StepMinutes: 60,
	}, nil
}

func serve(uc *fakeUseCase, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/free-intervals"+query, nil)
	rec := httptest.NewRecorder()
	NewHandler(uc, time.UTC, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, "?date=2026-10-19&excludeBookingId=3&start=16:00")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"date": "2026-10-19",
		"dayKind": "workday",
		"open": true,
		"window": {"start": "16:00", "end": "22:00"},
		"free": [{"start": "16:00", "end": "18:00"}],
		"startTimes": ["16:00", "17:00"],
		"durations": [1, 2],
		"stepMinutes": 60
	}`, rec.Body.String())

	require.NotNil(t, uc.got.ExcludeBookingID)
	assert.Equal(t, int64(3), *uc.got.ExcludeBookingID)
	require.NotNil(t, uc.got.Start)
	assert.Equal(t, types.NewClock(16, 0), *uc.got.Start)
}

func TestHandler_BadQuery(t *testing.T) {
	for _, query := range []string{
		"",
		"?date=2026-13-01",
		"?date=2026-10-19&excludeBookingId=-1",
		"?date=2026-10-19&start=7pm",
	} {
		uc := &fakeUseCase{}
		rec := serve(uc, query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Nil(t, uc.got, query)
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeUseCase{err: getFreeIntervals.ErrBookingNotFound}, "?date=2026-10-19").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: getFreeIntervals.ErrInternal}, "?date=2026-10-19").Code)
}
