package completion

import (
	"context"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/usecase/complete_bookings"
)

// Sweeper один проход завершения броней
type Sweeper interface {
	Execute(ctx context.Context) (*complete_bookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически переводит прошедшие брони в completed
type Worker struct {
	sweeper  Sweeper
	interval time.Duration
	logger   Logger
}

func NewWorker(sweeper Sweeper, interval time.Duration, logger Logger) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run блокируется до отмены ctx. Первый проход выполняется сразу.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Completion worker started, interval=%s", w.interval)
	defer w.logger.Info("Completion worker stopped")

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	resp, err := w.sweeper.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("Completion sweep failed: %v", err)
		return
	}
	if resp.Due > 0 {
		w.logger.Info("Completion sweep: due=%d, completed=%d, skipped=%d, failed=%d",
			resp.Due, resp.Completed, resp.Skipped, resp.Failed)
	}
}
