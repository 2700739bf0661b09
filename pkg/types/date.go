package types

import "time"

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

// DateIn возвращает полночь календарной даты t в локации loc.
// Год, месяц и день берутся из t как есть, без перевода часового пояса.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDate проверяет, что две даты относятся к одному календарному дню
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
