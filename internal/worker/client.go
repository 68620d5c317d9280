package worker

import (
	"context"
	"encoding/json"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client messages.
const (
	MsgChannel         = "Worker channel error"
	MsgInvalidResponse = "Invalid worker response"
)

// Client is the consumer side of the protocol over one Channel.
type Client struct {
	channel Channel
}

// NewClient creates a client that owns channel.
func NewClient(channel Channel) *Client {
	return &Client{channel: channel}
}

// SendRequest encodes req and sends it. Failures are ChannelErrors.
func (c *Client) SendRequest(ctx context.Context, req Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindValidation, err, "failed to encode worker request")
	}
	if err := c.channel.Send(ctx, raw); err != nil {
		return apperrors.Wrap(apperrors.KindChannel, err, "failed to send worker request")
	}
	return nil
}

// AwaitResponse waits for the next response and validates it.
func (c *Client) AwaitResponse(ctx context.Context) Response {
	raw, err := c.channel.Receive(ctx)
	if err != nil {
		wrapped := errors.Wrap(err, "failed to receive worker response")
		logger.Error("Worker channel receive failed", zap.Error(wrapped))
		return result.Err[DashboardPayload](apperrors.KindChannel, wrapped.Error(), MsgChannel)
	}

	parsed := validation.Parse(raw, ResponseShape)
	resp, ok := parsed.Value()
	if !ok {
		f, _ := parsed.Failure()
		logger.Error("Worker sent an invalid response", zap.String("error", f.Error()))
		return result.Fail[DashboardPayload](f).WithMessage(MsgInvalidResponse)
	}
	return resp
}

// Derive sends req and waits for its response.
func (c *Client) Derive(ctx context.Context, req Request) Response {
	if err := c.SendRequest(ctx, req); err != nil {
		return result.FromError[DashboardPayload](err, MsgChannel)
	}
	return c.AwaitResponse(ctx)
}

// Close closes the underlying channel.
func (c *Client) Close() error {
	return c.channel.Close()
}
