package get_free_intervals

import (
	"github.com/m04kA/BTR-BookingService/internal/domain"
	getFreeIntervals "github.com/m04kA/BTR-BookingService/internal/usecase/get_free_intervals"
)

// IntervalResponse интервал в формате HH:MM
type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeIntervalsResponse HTTP response model
type FreeIntervalsResponse struct {
	Date        string             `json:"date"`
	DayKind     string             `json:"dayKind"`
	Open        bool               `json:"open"`
	Window      *IntervalResponse  `json:"window,omitempty"`
	Free        []IntervalResponse `json:"free"`
	StartTimes  []string           `json:"startTimes"`
	Durations   []int              `json:"durations,omitempty"` // в шагах
	StepMinutes int                `json:"stepMinutes"`
}

func fromInterval(iv domain.Interval) IntervalResponse {
	return IntervalResponse{Start: iv.Start.String(), End: iv.End.String()}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeIntervals.Response) *FreeIntervalsResponse {
	out := &FreeIntervalsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		DayKind:     string(resp.Kind),
		Open:        resp.Open,
		Free:        make([]IntervalResponse, 0, len(resp.Free)),
		StartTimes:  make([]string, 0, len(resp.StartTimes)),
		Durations:   resp.Durations,
		StepMinutes: resp.StepMinutes,
	}
	if resp.Window != nil {
		w := fromInterval(*resp.Window)
		out.Window = &w
	}
	for _, iv := range resp.Free {
		out.Free = append(out.Free, fromInterval(iv))
	}
	for _, c := range resp.StartTimes {
		out.StartTimes = append(out.StartTimes, c.String())
	}
	return out
}
