package notify

import "github.com/m04kA/BTR-BookingService/internal/domain"

// Channel канал доставки уведомления
type Channel string

const (
	ChannelRiderEmail      Channel = "rider_email"
	ChannelOperatorMessage Channel = "operator_message"
)

// Template шаблон текста уведомления
type Template string

const (
	// письма райдеру
	TemplateBookingDetails     Template = "details"
	TemplateBookingConfirmed   Template = "confirm"
	TemplateCanceledByOperator Template = "cancel"
	TemplateCanceledByRider    Template = "self_cancel"
	TemplateEditedByOperator   Template = "edit"

	// сообщения в чат операторов
	TemplateOperatorNewBooking   Template = "operator_new"
	TemplateOperatorConfirmed    Template = "operator_confirm"
	TemplateOperatorCanceled     Template = "operator_cancel"
	TemplateOperatorEditedByUser Template = "self_edit"
)

// Delivery одно уведомление: куда и каким шаблоном
type Delivery struct {
	Channel  Channel  `json:"channel"`
	Template Template `json:"template"`
}

// Plan определяет, какие уведомления порождает событие.
// Завершение брони уведомлений не порождает.
func Plan(ev domain.BookingEvent) []Delivery {
	switch ev.Kind {
	case domain.EventBookingCreated:
		deliveries := []Delivery{{Channel: ChannelOperatorMessage, Template: TemplateOperatorNewBooking}}
		if ev.SelfService() {
			deliveries = append(deliveries, Delivery{Channel: ChannelRiderEmail, Template: TemplateBookingDetails})
		}
		return deliveries

	case domain.EventBookingConfirmed:
		return []Delivery{
			{Channel: ChannelRiderEmail, Template: TemplateBookingConfirmed},
			{Channel: ChannelOperatorMessage, Template: TemplateOperatorConfirmed},
		}

	case domain.EventBookingCanceled:
		rider := TemplateCanceledByOperator
		if ev.SelfService() {
			rider = TemplateCanceledByRider
		}
		return []Delivery{
			{Channel: ChannelRiderEmail, Template: rider},
			{Channel: ChannelOperatorMessage, Template: TemplateOperatorCanceled},
		}

	case domain.EventBookingEdited:
		if ev.SelfService() {
			return []Delivery{{Channel: ChannelOperatorMessage, Template: TemplateOperatorEditedByUser}}
		}
		return []Delivery{{Channel: ChannelRiderEmail, Template: TemplateEditedByOperator}}
	}

	return nil
}
