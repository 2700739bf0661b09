package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BTR-BookingService/pkg/types"
)

var (
	// ErrNonIntegralDuration длительность не кратна шагу слота
	ErrNonIntegralDuration = errors.New("duration is not a whole number of slot steps")

	// ErrInvalidInterval начало интервала не раньше конца
	ErrInvalidInterval = errors.New("interval start must be before end")
)

// Interval полуоткрытый интервал времени суток [Start, End)
type Interval struct {
	Start types.Clock `json:"start"`
	End   types.Clock `json:"end"`
}

// NewInterval создает интервал, проверяя start < end
func NewInterval(start, end types.Clock) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if !iv.Valid() {
		return Interval{}, fmt.Errorf("%w: %s", ErrInvalidInterval, iv)
	}
	return iv, nil
}

// Valid true, если интервал имеет положительную длину в пределах суток
func (iv Interval) Valid() bool {
	return iv.Start.Valid() && iv.End.Valid() && iv.Start < iv.End
}

// Duration длина интервала
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Steps количество целых шагов step в интервале.
// ErrNonIntegralDuration, если длина не кратна step или не положительна.
func (iv Interval) Steps(step time.Duration) (int, error) {
	d := iv.Duration()
	if step <= 0 || d <= 0 || d%step != 0 {
		return 0, fmt.Errorf("%w: %s is not a multiple of %s", ErrNonIntegralDuration, iv, step)
	}
	return int(d / step), nil
}

// DurationHours длина интервала в целых часах
func (iv Interval) DurationHours() (int, error) {
	return iv.Steps(time.Hour)
}

// Contains true, если inner целиком лежит внутри iv
func (iv Interval) Contains(inner Interval) bool {
	return iv.Start <= inner.Start && inner.End <= iv.End
}

// ContainsClock true, если момент c попадает в [Start, End)
func (iv Interval) ContainsClock(c types.Clock) bool {
	return iv.Start <= c && c < iv.End
}

// Overlaps true, если интервалы пересекаются. Касание границами не пересечение.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Subtract возвращает iv без пересечения с cut: 0, 1 или 2 интервала.
// Интервалы нулевой длины в результат не попадают.
func (iv Interval) Subtract(cut Interval) []Interval {
	if !iv.Overlaps(cut) {
		return []Interval{iv}
	}

	result := make([]Interval, 0, 2)
	if iv.Start < cut.Start {
		result = append(result, Interval{Start: iv.Start, End: cut.Start})
	}
	if cut.End < iv.End {
		result = append(result, Interval{Start: cut.End, End: iv.End})
	}
	return result
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}
