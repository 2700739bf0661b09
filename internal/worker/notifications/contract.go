package notifications

import (
	"context"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// RiderRepository профили райдеров
type RiderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rider, error)
	UpdateRank(ctx context.Context, id int64, rank domain.RiderRank) error
}

// BookingCounter счетчик завершенных броней райдера
type BookingCounter interface {
	CountCompletedByRider(ctx context.Context, riderID int64) (int, error)
}

// Mailer отправка писем райдерам
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// OperatorChannel сообщения в чат операторов
type OperatorChannel interface {
	Send(ctx context.Context, text string) error
}

// OperatorDirectory определяет, является ли пользователь оператором
type OperatorDirectory interface {
	IsOperator(id int64) bool
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
