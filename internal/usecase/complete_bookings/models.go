package complete_bookings

// Response итог одного прохода
type Response struct {
	Due       int // найдено подтвержденных броней с прошедшим окончанием
	Completed int
	Skipped   int // статус успели изменить параллельно
	Failed    int
}
