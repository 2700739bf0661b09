package get_month_load

import (
	"github.com/m04kA/BTR-BookingService/internal/domain"
	getMonthLoad "github.com/m04kA/BTR-BookingService/internal/usecase/get_month_load"
)

// DayResponse загруженность дня
type DayResponse struct {
	Date        string   `json:"date"`
	DayKind     string   `json:"dayKind"`
	State       string   `json:"state"`
	Open        *string  `json:"open,omitempty"`
	Close       *string  `json:"close,omitempty"`
	OpenHours   float64  `json:"openHours"`
	BookedHours float64  `json:"bookedHours"`
	FreeHours   float64  `json:"freeHours"`
	Free        []string `json:"free"` // "16:00-18:00"
}

// MonthLoadResponse HTTP response model
type MonthLoadResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}

func hours(minutes int) float64 {
	return float64(minutes) / 60
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthLoad.Response) *MonthLoadResponse {
	out := &MonthLoadResponse{
		Year:  resp.Year,
		Month: int(resp.Month),
		Days:  make([]DayResponse, 0, len(resp.Days)),
	}

	for _, d := range resp.Days {
		day := DayResponse{
			Date:        d.Date.Format(domain.DateFormat),
			DayKind:     string(d.Kind),
			State:       string(d.State),
			OpenHours:   hours(d.OpenMinutes),
			BookedHours: hours(d.BookedMinutes),
			FreeHours:   hours(d.FreeMinutes),
			Free:        make([]string, 0, len(d.Free)),
		}
		if d.Window != nil {
			open, closeAt := d.Window.Start.String(), d.Window.End.String()
			day.Open, day.Close = &open, &closeAt
		}
		for _, iv := range d.Free {
			day.Free = append(day.Free, iv.String())
		}
		out.Days = append(out.Days, day)
	}

	return out
}
