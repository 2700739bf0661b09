package get_free_intervals

import (
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// Request модель запроса свободных интервалов
type Request struct {
	Date             time.Time    // Календарная дата
	ExcludeBookingID *int64       // Бронь, которая не считается занятой (редактирование)
	Start            *types.Clock // Если указано, в ответ попадут допустимые длительности
}

// Response свободное время на дату
type Response struct {
	Date        time.Time
	Kind        domain.DayKind
	Open        bool
	Window      *domain.Interval
	Free        []domain.Interval
	StartTimes  []types.Clock
	Durations   []int // в шагах бронирования, только при Request.Start
	StepMinutes int
}
