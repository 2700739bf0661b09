package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/notify"
)

// ErrUnknownTemplate для шаблона нет текста
var ErrUnknownTemplate = errors.New("notifications: unknown template")

// messageData данные, доступные в шаблонах
type messageData struct {
	Booking     domain.BookingSnapshot
	RiderName   string
	Phone       string
	BookingsURL string
}

type message struct {
	subject string
	body    *template.Template
}

const bookingLine = `{{.Booking.Date}} с {{.Booking.StartTime}} до {{.Booking.EndTime}}, велосипедов: {{.Booking.BikeCount}}`

var messages = map[notify.Template]message{
	notify.TemplateBookingDetails: {
		subject: "Ваша бронь принята",
		body: mustParse("details", `Здравствуйте{{if .RiderName}}, {{.RiderName}}{{end}}!

Бронь №{{.Booking.ID}} принята и ожидает подтверждения оператором.
`+bookingLine+`
`),
	},
	notify.TemplateBookingConfirmed: {
		subject: "Бронь подтверждена",
		body: mustParse("confirm", `Здравствуйте{{if .RiderName}}, {{.RiderName}}{{end}}!

Бронь №{{.Booking.ID}} подтверждена. Ждем вас!
`+bookingLine+`
`),
	},
	notify.TemplateCanceledByOperator: {
		subject: "Бронь отменена",
		body: mustParse("cancel", `Здравствуйте{{if .RiderName}}, {{.RiderName}}{{end}}!

К сожалению, бронь №{{.Booking.ID}} отменена оператором.
`+bookingLine+`
`),
	},
	notify.TemplateCanceledByRider: {
		subject: "Вы отменили бронь",
		body: mustParse("self_cancel", `Здравствуйте{{if .RiderName}}, {{.RiderName}}{{end}}!

Бронь №{{.Booking.ID}} отменена по вашему запросу.
`+bookingLine+`
`),
	},
	notify.TemplateEditedByOperator: {
		subject: "Бронь изменена",
		body: mustParse("edit", `Здравствуйте{{if .RiderName}}, {{.RiderName}}{{end}}!

Оператор изменил бронь №{{.Booking.ID}}. Новые параметры:
`+bookingLine+`
`),
	},
	notify.TemplateOperatorNewBooking: {
		body: mustParse("operator_new", `Новая бронь №{{.Booking.ID}}
`+bookingLine+`
{{if .RiderName}}Клиент: {{.RiderName}}
{{end}}Телефон: {{.Phone}}{{if .BookingsURL}}
{{.BookingsURL}}{{end}}`),
	},
	notify.TemplateOperatorConfirmed: {
		body: mustParse("operator_confirm", `Бронь №{{.Booking.ID}} подтверждена
`+bookingLine),
	},
	notify.TemplateOperatorCanceled: {
		body: mustParse("operator_cancel", `Бронь №{{.Booking.ID}} отменена
`+bookingLine+`
Телефон: {{.Phone}}`),
	},
	notify.TemplateOperatorEditedByUser: {
		body: mustParse("self_edit", `Клиент изменил бронь №{{.Booking.ID}}
`+bookingLine+`
Телефон: {{.Phone}}{{if .BookingsURL}}
{{.BookingsURL}}{{end}}`),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// render возвращает тему (пустая для сообщений операторам) и текст
func render(t notify.Template, data messageData) (string, string, error) {
	msg, ok := messages[t]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, t)
	}

	var buf bytes.Buffer
	if err := msg.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", t, err)
	}

	return msg.subject, buf.String(), nil
}
