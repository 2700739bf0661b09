package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// ErrInvalidClock возвращается при некорректном формате времени суток
var ErrInvalidClock = errors.New("invalid clock format, expected HH:MM")

// Clock время суток с точностью до минуты: количество минут от полуночи.
// Допустимый диапазон [0, 1440], 24:00 используется как конец суток.
type Clock int

// NewClock создает время суток из часов и минут
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ClockOf возвращает время суток момента t (секунды отбрасываются)
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// ParseClock разбирает "HH:MM" или "HH:MM:SS" (секунды отбрасываются)
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	c := NewClock(hour, minute)
	if hour < 0 || minute < 0 || minute > 59 || !c.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return c, nil
}

// MustParseClock как ParseClock, но паникует (для констант и тестов)
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// Valid true, если значение в пределах суток
func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}

// String возвращает время в формате HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Add сдвигает время на d (с точностью до минуты)
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// Sub возвращает длительность c - o
func (c Clock) Sub(o Clock) time.Duration {
	return time.Duration(c-o) * time.Minute
}

func (c Clock) Before(o Clock) bool { return c < o }
func (c Clock) After(o Clock) bool  { return c > o }

// On возвращает момент времени c в календарную дату date (в её локации)
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, date.Location())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClock, err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan реализует sql.Scanner для колонок типа TIME
func (c *Clock) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		// lib/pq отдает TIME '24:00:00' как полночь следующего дня
		if v.Year() == 0 && v.YearDay() == 2 && ClockOf(v) == 0 {
			*c = MinutesPerDay
			return nil
		}
		*c = ClockOf(v)
		return nil
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidClock)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidClock, src)
	}
}

func (c *Clock) scanString(s string) error {
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value реализует driver.Valuer
func (c Clock) Value() (driver.Value, error) {
	return c.String() + ":00", nil
}

// NullClock время суток, допускающее NULL
type NullClock struct {
	Clock Clock
	Valid bool
}

// Ptr возвращает nil для NULL
func (n NullClock) Ptr() *Clock {
	if !n.Valid {
		return nil
	}
	c := n.Clock
	return &c
}

func (n *NullClock) Scan(src interface{}) error {
	if src == nil {
		n.Clock, n.Valid = 0, false
		return nil
	}
	if err := n.Clock.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullClock) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Clock.Value()
}
