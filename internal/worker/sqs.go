package worker

//go:generate mockgen -destination=../mocks/mock_sqs_client.go -package=mocks github.com/cyphera/cyphera-metrics/internal/worker SQSClient

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Message attributes carried by requests and echoed on responses. SentAt is
// set on responses only, in Unix milliseconds.
const (
	AttrReplyTo    = "ReplyTo"
	AttrConsumerID = "ConsumerId"
	AttrSentAt     = "SentAt"
)

// DefaultReplyTTL is how long a response may wait on the reply queue before
// any consumer discards it. It outlives every derive deadline.
const DefaultReplyTTL = 2 * time.Minute

const (
	pollBackoff    = 50 * time.Millisecond
	releaseTimeout = 5 * time.Second
)

// SQSClient is the subset of the SQS API the channel uses.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// SQSChannel is a Channel over a request queue and a reply queue, both
// shared by every channel an opener creates. Responses are routed by the
// ConsumerId attribute.
type SQSChannel struct {
	client          SQSClient
	requestQueueURL string
	replyQueueURL   string
	waitSeconds     int32
	replyTTL        time.Duration
	consumerID      string

	mu     sync.Mutex
	closed bool
}

// NewSQSChannel creates a channel with a fresh consumer ID.
func NewSQSChannel(client SQSClient, requestQueueURL, replyQueueURL string, waitSeconds int32) *SQSChannel {
	return &SQSChannel{
		client:          client,
		requestQueueURL: requestQueueURL,
		replyQueueURL:   replyQueueURL,
		waitSeconds:     waitSeconds,
		replyTTL:        DefaultReplyTTL,
		consumerID:      uuid.NewString(),
	}
}

// SQSOpener opens SQSChannels that share a client and queue pair. ReplyTTL
// defaults to DefaultReplyTTL.
type SQSOpener struct {
	Client           SQSClient
	RequestQueueURL  string
	ResponseQueueURL string
	WaitSeconds      int32
	ReplyTTL         time.Duration
}

// Open returns a channel with its own consumer ID.
func (o *SQSOpener) Open() Channel {
	ch := NewSQSChannel(o.Client, o.RequestQueueURL, o.ResponseQueueURL, o.WaitSeconds)
	if o.ReplyTTL > 0 {
		ch.replyTTL = o.ReplyTTL
	}
	return ch
}

// ConsumerID identifies this channel's responses on the reply queue.
func (c *SQSChannel) ConsumerID() string {
	return c.consumerID
}

func (c *SQSChannel) Send(ctx context.Context, msg []byte) error {
	if c.isClosed() {
		return ErrChannelClosed
	}

	_, err := c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.requestQueueURL),
		MessageBody: aws.String(string(msg)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			AttrReplyTo:    stringAttribute(c.replyQueueURL),
			AttrConsumerID: stringAttribute(c.consumerID),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to send message to SQS")
	}
	return nil
}

// Receive polls the reply queue until a response for this consumer arrives
// or ctx is done. Responses for other consumers are made visible again at
// once, or deleted when older than the reply TTL.
func (c *SQSChannel) Receive(ctx context.Context) ([]byte, error) {
	for {
		if c.isClosed() {
			return nil, ErrChannelClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(c.replyQueueURL),
			MaxNumberOfMessages:   1,
			WaitTimeSeconds:       c.waitSeconds,
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.Wrap(err, "failed to receive message from SQS")
		}

		for _, msg := range out.Messages {
			if !c.owns(msg) {
				c.pass(ctx, msg)
				continue
			}

			if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(c.replyQueueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				return nil, errors.Wrap(err, "failed to delete message from SQS")
			}
			return []byte(aws.ToString(msg.Body)), nil
		}

		// A long poll that came back empty has already waited.
		if len(out.Messages) == 0 && c.waitSeconds > 0 {
			continue
		}
		if err := sleepCtx(ctx, pollBackoff); err != nil {
			return nil, err
		}
	}
}

// owns reports whether msg is addressed to this channel. Responses without a
// consumer ID belong to whoever reads them.
func (c *SQSChannel) owns(msg types.Message) bool {
	id, ok := msg.MessageAttributes[AttrConsumerID]
	return !ok || aws.ToString(id.StringValue) == c.consumerID
}

// pass hands a response for another consumer back to the queue, even after
// ctx is done.
func (c *SQSChannel) pass(ctx context.Context, msg types.Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	log := logger.With(logger.ConsumerID(c.consumerID), logger.MessageID(aws.ToString(msg.MessageId)))
	if age, ok := replyAge(msg, time.Now()); ok && age > c.replyTTL {
		log.Debug("Discarding expired response", zap.Duration("age", age))
		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(c.replyQueueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			log.Warn("Failed to delete expired response", zap.Error(err))
		}
		return
	}

	log.Debug("Releasing response for another consumer")
	if _, err := c.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(c.replyQueueURL),
		ReceiptHandle:     msg.ReceiptHandle,
		VisibilityTimeout: 0,
	}); err != nil {
		log.Warn("Failed to release response", zap.Error(err))
	}
}

// replyAge returns how long ago a response was sent, read from its SentAt
// attribute.
func replyAge(msg types.Message, now time.Time) (time.Duration, bool) {
	attr, ok := msg.MessageAttributes[AttrSentAt]
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(aws.ToString(attr.StringValue), 10, 64)
	if err != nil {
		return 0, false
	}
	return now.Sub(time.UnixMilli(ms)), true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *SQSChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *SQSChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func stringAttribute(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(v),
	}
}

// SQSHandler answers request messages delivered to a lambda by SQS.
type SQSHandler struct {
	client  SQSClient
	handler HandlerFunc
}

// NewSQSHandler creates a handler that replies with client.
func NewSQSHandler(client SQSClient, handler HandlerFunc) *SQSHandler {
	if handler == nil {
		handler = HandleRequest
	}
	return &SQSHandler{client: client, handler: handler}
}

// HandleEvent handles every record and replies to its ReplyTo queue. A reply
// that cannot be sent is logged and not retried.
func (h *SQSHandler) HandleEvent(ctx context.Context, event events.SQSEvent) error {
	logger.Info("Processing worker requests", zap.Int("message_count", len(event.Records)))

	failed := 0
	for _, record := range event.Records {
		if err := h.handleRecord(ctx, record); err != nil {
			failed++
			logger.Error("Failed to reply to worker request",
				zap.Error(err),
				logger.MessageID(record.MessageId),
			)
		}
	}

	logger.Info("Worker requests processed",
		zap.Int("message_count", len(event.Records)),
		zap.Int("failed_replies", failed),
	)
	return nil
}

func (h *SQSHandler) handleRecord(ctx context.Context, record events.SQSMessage) error {
	replyTo, ok := record.MessageAttributes[AttrReplyTo]
	if !ok || aws.ToString(replyTo.StringValue) == "" {
		// Nobody can receive a reply; the request is dropped.
		logger.Warn("Worker request without ReplyTo attribute", logger.MessageID(record.MessageId))
		return nil
	}

	body := h.handler(ctx, []byte(record.Body))

	attrs := map[string]types.MessageAttributeValue{
		AttrSentAt: {
			DataType:    aws.String("Number"),
			StringValue: aws.String(strconv.FormatInt(time.Now().UnixMilli(), 10)),
		},
	}
	if consumer, ok := record.MessageAttributes[AttrConsumerID]; ok && consumer.StringValue != nil {
		attrs[AttrConsumerID] = stringAttribute(*consumer.StringValue)
	}

	_, err := h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          replyTo.StringValue,
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send reply to SQS")
	}
	return nil
}
