package domain

import (
	"time"

	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// DayKind классификация дня недели для выбора часов работы
type DayKind string

const (
	DayKindWorkday DayKind = "workday"
	DayKindWeekend DayKind = "weekend"
)

// Valid returns true for a known kind
func (k DayKind) Valid() bool {
	return k == DayKindWorkday || k == DayKindWeekend
}

// DayPolicy часы работы по умолчанию для вида дня
type DayPolicy struct {
	Kind      DayKind
	OpenTime  types.Clock
	CloseTime types.Clock
	UpdatedAt time.Time
}

// Window returns the open window of the policy
func (p *DayPolicy) Window() Interval {
	return Interval{Start: p.OpenTime, End: p.CloseTime}
}

// DayOverride исключение из расписания на конкретную дату (праздник, особые часы)
type DayOverride struct {
	Date      time.Time
	OpenTime  *types.Clock
	CloseTime *types.Clock
	IsClosed  bool
	UpdatedAt time.Time
}

// Window returns the override window; ok is false when the day is closed
// or the hours are incomplete
func (o *DayOverride) Window() (Interval, bool) {
	if o.IsClosed || o.OpenTime == nil || o.CloseTime == nil {
		return Interval{}, false
	}
	iv := Interval{Start: *o.OpenTime, End: *o.CloseTime}
	return iv, iv.Valid()
}

// Schedule политики по видам дней
type Schedule map[DayKind]DayPolicy
