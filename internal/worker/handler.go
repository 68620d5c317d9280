package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/cards"
	"github.com/cyphera/cyphera-metrics/internal/charts"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/selector"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Failure messages of each step.
const (
	MsgParsing   = "Error parsing message"
	MsgSelecting = "Error selecting metrics"
	MsgDeriving  = "Error deriving charts"
	MsgUnhandled = "Unhandled error in worker"
	MsgStopped   = "Worker stopped before handling the request"
)

// HandlerFunc turns one raw request into exactly one raw response.
type HandlerFunc func(ctx context.Context, raw []byte) []byte

// fallbackResponse is sent when a response cannot be encoded.
var fallbackResponse = []byte(`{"success":false,"kind":"Unknown","message":"Unhandled error in worker"}`)

// HandleRequest is the worker entry point. It keeps no state between calls.
func HandleRequest(ctx context.Context, raw []byte) []byte {
	resp := Handle(ctx, raw)
	out, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to encode worker response", zap.Error(err))
		return fallbackResponse
	}
	return out
}

// Handle parses, selects and derives, returning a typed response.
func Handle(ctx context.Context, raw []byte) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Recovered panic in worker", zap.Any("panic", rec))
			resp = result.Err[DashboardPayload](apperrors.KindUnknown, fmt.Sprint(rec), MsgUnhandled)
		}
	}()

	if err := ctx.Err(); err != nil {
		return result.Err[DashboardPayload](apperrors.KindChannel, err.Error(), MsgStopped)
	}

	req := validation.Parse(raw, RequestShape).WithMessage(MsgParsing)
	if f, failed := req.Failure(); failed {
		logFailure(f)
		return result.Fail[DashboardPayload](f)
	}
	request, _ := req.Value()

	selected := result.Then(req, MsgSelecting, func(r Request) result.Result[business.SelectedDateMetrics] {
		return selector.SelectScopedMetrics(r.Document, r.SelectedDate, r.StoreLocation)
	})
	resp = result.Then(selected, MsgDeriving, func(s business.SelectedDateMetrics) Response {
		return derivePayload(request, &s)
	})

	if f, failed := resp.Failure(); failed {
		logFailure(f)
		return resp
	}
	logger.Debug("Worker request handled",
		logger.StoreLocation(request.StoreLocation),
		zap.String("calendar_view", string(request.CalendarView)),
		logger.SelectedDate(request.SelectedDate.YYYYMMDD),
	)
	return resp
}

func derivePayload(req Request, selected *business.SelectedDateMetrics) Response {
	derived := charts.DeriveCharts(req.Document, selected, req.StoreLocation)
	return result.Then(derived, MsgDeriving, func(fc business.FinancialCharts) Response {
		return result.Map(cards.DeriveCards(selected, req.CalendarView, req.FormattingParams), func(dc business.DashboardCards) DashboardPayload {
			current, previous := charts.DeriveCalendars(selected)
			return DashboardPayload{
				CurrentYearCalendar:  current,
				PreviousYearCalendar: previous,
				Charts:               fc,
				Cards:                dc,
			}
		})
	})
}

func logFailure(f result.Failure) {
	logger.Warn("Worker request failed",
		logger.Kind(f.Kind),
		zap.String("message", f.Message),
	)
	if logger.Log.Core().Enabled(zapcore.DebugLevel) {
		logger.Debug("Worker failure payload", zap.String("payload", spew.Sdump(f.Data)))
	}
}
