package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/middleware"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultDeriveTimeout bounds one worker round trip.
const DefaultDeriveTimeout = 30 * time.Second

// ChartsHandler serves dashboard derivation over a worker channel.
type ChartsHandler struct {
	opener  worker.Opener
	timeout time.Duration
}

// NewChartsHandler creates a handler opening one channel per request from opener.
// A non-positive timeout uses DefaultDeriveTimeout.
func NewChartsHandler(opener worker.Opener, timeout time.Duration) *ChartsHandler {
	if timeout <= 0 {
		timeout = DefaultDeriveTimeout
	}
	return &ChartsHandler{opener: opener, timeout: timeout}
}

// DeriveCharts handles POST /api/v1/charts. The body is a worker request, the
// response is the worker's Safe Result with a status derived from its kind.
func (h *ChartsHandler) DeriveCharts(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		sendError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	log := middleware.LogWithCorrelationID(c.Request.Context())

	parsed := validation.Parse(raw, worker.RequestShape).WithMessage(worker.MsgParsing)
	req, ok := parsed.Value()
	if !ok {
		f, _ := parsed.Failure()
		log.Warn("Rejected chart request", logger.Kind(f.Kind))
		c.JSON(StatusFor(f.Kind), parsed)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	client := worker.NewClient(h.opener.Open())
	defer func() {
		if err := client.Close(); err != nil {
			logger.Debug("Failed to close worker channel", zap.Error(err))
		}
	}()

	resp := client.Derive(ctx, req)
	if f, failed := resp.Failure(); failed {
		log.Warn("Chart derivation failed",
			logger.Kind(f.Kind),
			zap.String("message", f.Message),
			logger.StoreLocation(req.StoreLocation),
			logger.SelectedDate(req.SelectedDate.YYYYMMDD),
		)
		c.JSON(StatusFor(f.Kind), resp)
		return
	}

	log.Info("Derived dashboard",
		logger.StoreLocation(req.StoreLocation),
		zap.String("calendar_view", string(req.CalendarView)),
		logger.SelectedDate(req.SelectedDate.YYYYMMDD),
	)
	c.JSON(http.StatusOK, resp)
}
