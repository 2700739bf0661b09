package complete_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/usecase/transition_status"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
)

type fakeDue struct {
	bookings []*domain.Booking
	err      error

	gotNow   time.Time
	gotLoc   *time.Location
	gotLimit int
}

func (f *fakeDue) GetDueForCompletion(_ context.Context, now time.Time, loc *time.Location, limit int) ([]*domain.Booking, error) {
	f.gotNow, f.gotLoc, f.gotLimit = now, loc, limit
	return f.bookings, f.err
}

type fakeTransitioner struct {
	results  map[int64]error
	requests []transition_status.Request
}

func (f *fakeTransitioner) Execute(_ context.Context, req *transition_status.Request) (*transition_status.Response, error) {
	f.requests = append(f.requests, *req)
	if err := f.results[req.BookingID]; err != nil {
		return nil, err
	}
	return &transition_status.Response{}, nil
}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2026, 10, 19, 20, 5, 0, 0, time.UTC)
	moscow := time.FixedZone("MSK", 3*60*60)
	due := &fakeDue{bookings: []*domain.Booking{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}}
	transitioner := &fakeTransitioner{results: map[int64]error{
		2: transition_status.ErrStatusConflict,
		3: transition_status.ErrNoOpTransition,
		4: errors.New("db down"),
	}}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	uc := NewUseCase(due, transitioner, moscow, 50, m, logger.NewNop()).WithTimeProvider(fixedTime(now))

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{Due: 4, Completed: 1, Skipped: 2, Failed: 1}, resp)
	assert.Equal(t, now, due.gotNow)
	assert.Equal(t, moscow, due.gotLoc)
	assert.Equal(t, 50, due.gotLimit)

	require.Len(t, transitioner.requests, 4)
	for _, req := range transitioner.requests {
		assert.Equal(t, domain.StatusCompleted, req.Status)
		assert.True(t, req.Actor.IsSystem())
	}

	for result, want := range map[string]float64{"completed": 1, "skipped": 2, "failed": 1} {
		var metric dto.Metric
		require.NoError(t, m.SweepCompletedTotal.WithLabelValues(result).Write(&metric))
		assert.Equal(t, want, metric.GetCounter().GetValue(), result)
	}
}

func TestUseCase_Execute_QueryError(t *testing.T) {
	uc := NewUseCase(&fakeDue{err: errors.New("db down")}, &fakeTransitioner{}, nil, 0, nil, logger.NewNop())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_StopsOnCanceledContext(t *testing.T) {
	due := &fakeDue{bookings: []*domain.Booking{{ID: 1}, {ID: 2}}}
	transitioner := &fakeTransitioner{}
	uc := NewUseCase(due, transitioner, nil, 0, nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, transitioner.requests)
	assert.Equal(t, DefaultBatchSize, due.gotLimit)
}
