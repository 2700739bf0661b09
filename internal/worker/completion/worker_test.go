package completion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/BTR-BookingService/internal/usecase/complete_bookings"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Execute(context.Context) (*complete_bookings.Response, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &complete_bookings.Response{Due: 1, Completed: 1}, nil
}

func TestWorker_Run(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewWorker(sweeper, 10*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorker_Run_KeepsGoingAfterError(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	w := NewWorker(sweeper, 10*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
