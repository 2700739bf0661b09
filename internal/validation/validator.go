package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

var (
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	phonePattern = regexp.MustCompile(`^\+7\d{10}$`)
)

// Config правила проверки брони
type Config struct {
	MinBikes int
	MaxBikes int
	SlotStep time.Duration
	Location *time.Location
}

// Candidate заявка на бронь
type Candidate struct {
	Date      time.Time
	Interval  domain.Interval
	BikeCount int
}

// Validator проверяет заявку на бронь по свободным интервалам дня
type Validator struct {
	cfg Config
}

// NewValidator создает валидатор, подставляя значения по умолчанию
func NewValidator(cfg Config) *Validator {
	if cfg.MinBikes <= 0 {
		cfg.MinBikes = domain.DefaultMinBikes
	}
	if cfg.MaxBikes < cfg.MinBikes {
		cfg.MaxBikes = domain.DefaultMaxBikes
	}
	if cfg.SlotStep <= 0 {
		cfg.SlotStep = domain.DefaultSlotStep
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Validator{cfg: cfg}
}

// ValidateNotInPast начало брони должно быть строго позже now
func (v *Validator) ValidateNotInPast(date time.Time, start types.Clock, now time.Time) error {
	startsAt := start.On(types.DateIn(date, v.cfg.Location))
	if !startsAt.After(now) {
		return fmt.Errorf("%w: %s %s", ErrPastStartTime, date.Format(domain.DateFormat), start)
	}
	return nil
}

// ValidateWithinFreeSlot интервал должен целиком помещаться в один свободный
func (v *Validator) ValidateWithinFreeSlot(iv domain.Interval, free []domain.Interval) error {
	for _, f := range free {
		if f.Contains(iv) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSlotUnavailable, iv)
}

// ValidateWholeHour длительность - положительное целое число шагов
func (v *Validator) ValidateWholeHour(iv domain.Interval) error {
	if _, err := iv.Steps(v.cfg.SlotStep); err != nil {
		return err
	}
	return nil
}

// ValidateBikeCount количество велосипедов в пределах [MinBikes, MaxBikes]
func (v *Validator) ValidateBikeCount(n int) error {
	if n < v.cfg.MinBikes || n > v.cfg.MaxBikes {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBikeCount, n, v.cfg.MinBikes, v.cfg.MaxBikes)
	}
	return nil
}

// Validate выполняет все проверки и возвращает Errors со всеми нарушениями
// или nil
func (v *Validator) Validate(c Candidate, free []domain.Interval, now time.Time) error {
	var errs Errors

	for _, err := range []error{
		v.ValidateNotInPast(c.Date, c.Interval.Start, now),
		v.ValidateWithinFreeSlot(c.Interval, free),
		v.ValidateWholeHour(c.Interval),
		v.ValidateBikeCount(c.BikeCount),
	} {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateFirst возвращает первое нарушение (для диалогов бота)
func (v *Validator) ValidateFirst(c Candidate, free []domain.Interval, now time.Time) error {
	if err := v.ValidateNotInPast(c.Date, c.Interval.Start, now); err != nil {
		return err
	}
	if err := v.ValidateWholeHour(c.Interval); err != nil {
		return err
	}
	if err := v.ValidateWithinFreeSlot(c.Interval, free); err != nil {
		return err
	}
	return v.ValidateBikeCount(c.BikeCount)
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return date, nil
}

// ParseClock разбирает время HH:MM (00:00-23:59)
func ParseClock(s string) (types.Clock, error) {
	s = strings.TrimSpace(s)
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	c, err := types.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return c, nil
}

// ParseEndClock как ParseClock, но дополнительно принимает 24:00 (конец суток)
func ParseEndClock(s string) (types.Clock, error) {
	if strings.TrimSpace(s) == "24:00" {
		return types.MinutesPerDay, nil
	}
	return ParseClock(s)
}

// ValidatePhone проверяет формат +7XXXXXXXXXX
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return nil
}
