package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

const (
	riderID    = int64(7)
	operatorID = int64(1)
)

var (
	rider    = domain.Actor{ID: riderID, Role: domain.RoleRider}
	operator = domain.Actor{ID: operatorID, Role: domain.RoleOperator}
)

func event(kind domain.EventKind, actor domain.Actor) domain.BookingEvent {
	b := &domain.Booking{
		ID:          42,
		RiderID:     riderID,
		BookingDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		StartTime:   types.NewClock(18, 0),
		EndTime:     types.NewClock(19, 0),
		BikeCount:   2,
		Status:      domain.StatusPending,
	}
	return domain.NewBookingEvent(kind, b, actor, nil, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name  string
		event domain.BookingEvent
		want  []Delivery
	}{
		{
			name:  "self-service booking",
			event: event(domain.EventBookingCreated, rider),
			want: []Delivery{
				{Channel: ChannelOperatorMessage, Template: TemplateOperatorNewBooking},
				{Channel: ChannelRiderEmail, Template: TemplateBookingDetails},
			},
		},
		{
			name:  "operator booking",
			event: event(domain.EventBookingCreated, operator),
			want:  []Delivery{{Channel: ChannelOperatorMessage, Template: TemplateOperatorNewBooking}},
		},
		{
			name:  "confirmed",
			event: event(domain.EventBookingConfirmed, operator),
			want: []Delivery{
				{Channel: ChannelRiderEmail, Template: TemplateBookingConfirmed},
				{Channel: ChannelOperatorMessage, Template: TemplateOperatorConfirmed},
			},
		},
		{
			name:  "canceled by rider",
			event: event(domain.EventBookingCanceled, rider),
			want: []Delivery{
				{Channel: ChannelRiderEmail, Template: TemplateCanceledByRider},
				{Channel: ChannelOperatorMessage, Template: TemplateOperatorCanceled},
			},
		},
		{
			name:  "canceled by operator",
			event: event(domain.EventBookingCanceled, operator),
			want: []Delivery{
				{Channel: ChannelRiderEmail, Template: TemplateCanceledByOperator},
				{Channel: ChannelOperatorMessage, Template: TemplateOperatorCanceled},
			},
		},
		{
			name:  "edited by rider",
			event: event(domain.EventBookingEdited, rider),
			want:  []Delivery{{Channel: ChannelOperatorMessage, Template: TemplateOperatorEditedByUser}},
		},
		{
			name:  "edited by operator",
			event: event(domain.EventBookingEdited, operator),
			want:  []Delivery{{Channel: ChannelRiderEmail, Template: TemplateEditedByOperator}},
		},
		{
			name:  "completed",
			event: event(domain.EventBookingCompleted, domain.SystemActor),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plan(tt.event))
		})
	}
}
