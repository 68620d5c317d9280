// Package worker moves chart derivation behind an asynchronous message
// boundary. Requests and responses are JSON; responses are Safe Results.
package worker

import (
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
)

// DefaultMaxMessageBytes bounds a single request or response.
const DefaultMaxMessageBytes = 8 << 20

// Request asks the worker for every chart and card of one dashboard view.
type Request struct {
	Document         business.MetricsDocument  `json:"document"`
	SelectedDate     business.SelectedDate     `json:"selectedDate"`
	StoreLocation    constants.StoreLocation   `json:"storeLocation" validate:"required,storelocation"`
	CalendarView     constants.CalendarView    `json:"calendarView" validate:"required,calendarview"`
	FormattingParams business.FormattingParams `json:"formattingParams"`
}

// DashboardPayload is the data of a successful response.
type DashboardPayload struct {
	CurrentYearCalendar  business.CalendarCharts  `json:"currentYearCalendar"`
	PreviousYearCalendar business.CalendarCharts  `json:"previousYearCalendar"`
	Charts               business.FinancialCharts `json:"charts"`
	Cards                business.DashboardCards  `json:"cards"`
}

// Response is the single reply to a Request.
type Response = result.Result[DashboardPayload]

// RequestShape is what the worker accepts.
var RequestShape = validation.Shape[Request]{
	Name:     "request",
	MaxBytes: DefaultMaxMessageBytes,
	Checks:   []func(Request) []validation.ValidationError{checkSelectedDate},
}

// ResponseShape is what a consumer accepts back from the worker.
var ResponseShape = validation.Shape[Response]{
	Name:     "response",
	MaxBytes: DefaultMaxMessageBytes,
	Checks:   []func(Response) []validation.ValidationError{checkPayload},
}

func checkSelectedDate(req Request) []validation.ValidationError {
	if _, err := req.SelectedDate.Time(); err != nil {
		return []validation.ValidationError{{Field: "selectedDate", Message: err.Error()}}
	}
	return nil
}

func checkPayload(resp Response) []validation.ValidationError {
	payload, ok := resp.Value()
	if !ok {
		return nil
	}
	return validation.Struct(payload)
}
