package availability

import (
	"sort"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// Config правила расчета свободного времени
type Config struct {
	// WeekendStart первый день выходных; выходные длятся до воскресенья включительно
	WeekendStart time.Weekday
	// SlotStep шаг бронирования (по умолчанию час)
	SlotStep time.Duration
}

// DefaultConfig пятница-воскресенье выходные, шаг 1 час
func DefaultConfig() Config {
	return Config{
		WeekendStart: domain.DefaultWeekendStart,
		SlotStep:     domain.DefaultSlotStep,
	}
}

// Day входные данные расчета на одну дату
type Day struct {
	Date     time.Time
	Schedule domain.Schedule
	Override *domain.DayOverride
	Booked   []domain.Interval
}

// Resolver рассчитывает свободные интервалы дня. Не хранит состояния.
type Resolver struct {
	cfg Config
}

// NewResolver создает резолвер
func NewResolver(cfg Config) *Resolver {
	if cfg.SlotStep <= 0 {
		cfg.SlotStep = domain.DefaultSlotStep
	}
	return &Resolver{cfg: cfg}
}

// SlotStep возвращает шаг бронирования
func (r *Resolver) SlotStep() time.Duration {
	return r.cfg.SlotStep
}

// Classify определяет вид дня по дню недели
func (r *Resolver) Classify(date time.Time) domain.DayKind {
	wd := date.Weekday()
	if wd == time.Sunday {
		return domain.DayKindWeekend
	}
	if r.cfg.WeekendStart != time.Sunday && wd >= r.cfg.WeekendStart {
		return domain.DayKindWeekend
	}
	return domain.DayKindWorkday
}

// Window возвращает окно работы на дату. Исключение на дату важнее политики.
// ok = false, если в этот день прокат закрыт.
func (r *Resolver) Window(date time.Time, schedule domain.Schedule, override *domain.DayOverride) (domain.Interval, bool) {
	if override != nil && types.SameDate(override.Date, date) {
		return override.Window()
	}

	policy, found := schedule[r.Classify(date)]
	if !found {
		return domain.Interval{}, false
	}

	window := policy.Window()
	return window, window.Valid()
}

// Resolve свободные интервалы дня. exclude - интервал, который не считается
// занятым (собственная бронь при редактировании).
func (r *Resolver) Resolve(day Day, exclude *domain.Interval) []domain.Interval {
	window, open := r.Window(day.Date, day.Schedule, day.Override)
	if !open {
		return []domain.Interval{}
	}
	return FreeIntervals(window, day.Booked, exclude)
}

// FreeIntervals вычитает занятые интервалы из окна работы.
// Результат упорядочен, интервалы не пересекаются и имеют положительную длину.
// exclude убирает из booked одно совпадающее вхождение.
func FreeIntervals(window domain.Interval, booked []domain.Interval, exclude *domain.Interval) []domain.Interval {
	if !window.Valid() {
		return []domain.Interval{}
	}

	sorted := make([]domain.Interval, 0, len(booked))
	excluded := false
	for _, b := range booked {
		if exclude != nil && !excluded && b == *exclude {
			excluded = true
			continue
		}
		if b.Valid() {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	free := []domain.Interval{window}
	for _, cut := range sorted {
		next := make([]domain.Interval, 0, len(free)+1)
		for _, f := range free {
			next = append(next, f.Subtract(cut)...)
		}
		free = next
		if len(free) == 0 {
			break
		}
	}

	return free
}

// ValidStartTimes все выровненные по шагу моменты, с которых можно начать
// бронь хотя бы на один шаг
func (r *Resolver) ValidStartTimes(free []domain.Interval) []types.Clock {
	step := r.cfg.SlotStep
	result := make([]types.Clock, 0)

	for _, f := range free {
		for t := alignUp(f.Start, step); !t.Add(step).After(f.End); t = t.Add(step) {
			result = append(result, t)
		}
	}

	return result
}

// ValidDurations допустимые длительности (в шагах) для брони с началом start:
// от 1 до конца свободного интервала, содержащего start. Для start не на
// границе шага список пуст, как и в ValidStartTimes.
func (r *Resolver) ValidDurations(free []domain.Interval, start types.Clock) []int {
	step := r.cfg.SlotStep
	if alignUp(start, step) != start {
		return []int{}
	}

	for _, f := range free {
		if !f.ContainsClock(start) {
			continue
		}
		n := int(f.End.Sub(start) / step)
		result := make([]int, 0, n)
		for i := 1; i <= n; i++ {
			result = append(result, i)
		}
		return result
	}

	return []int{}
}

// alignUp округляет c вверх до кратного step от полуночи
func alignUp(c types.Clock, step time.Duration) types.Clock {
	stepMin := int(step / time.Minute)
	if stepMin <= 0 {
		return c
	}
	if rem := int(c) % stepMin; rem != 0 {
		return c + types.Clock(stepMin-rem)
	}
	return c
}
