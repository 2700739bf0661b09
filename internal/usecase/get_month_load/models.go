package get_month_load

import (
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// LoadState загруженность дня для календаря
type LoadState string

const (
	StateClosed  LoadState = "closed"  // прокат не работает
	StateFree    LoadState = "free"    // броней нет
	StatePartial LoadState = "partial" // есть брони и есть свободное время
	StateFull    LoadState = "full"    // не помещается ни одного шага
	StatePast    LoadState = "past"    // день прошел
)

// Request модель запроса календаря
type Request struct {
	Year  int
	Month time.Month
}

// DayLoad загруженность одного дня
type DayLoad struct {
	Date          time.Time
	Kind          domain.DayKind
	State         LoadState
	Window        *domain.Interval
	Free          []domain.Interval
	OpenMinutes   int
	BookedMinutes int
	FreeMinutes   int
}

// Response календарь месяца
type Response struct {
	Year  int
	Month time.Month
	Days  []DayLoad
}
