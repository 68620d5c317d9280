package worker

//go:generate mockgen -destination=../mocks/mock_channel.go -package=mocks github.com/cyphera/cyphera-metrics/internal/worker Channel

import (
	"context"
	"errors"
)

var (
	// ErrChannelClosed is returned by a channel after Close.
	ErrChannelClosed = errors.New("worker channel closed")
	// ErrPoolStopped is returned once the pool has been stopped.
	ErrPoolStopped = errors.New("worker pool stopped")
	// ErrQueueFull is returned when a request cannot be queued in time.
	ErrQueueFull = errors.New("worker queue is full, try again later")
)

// Channel carries raw messages between one consumer and a worker. Responses
// arrive in request order; at most one request is expected to be in flight.
type Channel interface {
	Send(ctx context.Context, msg []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Opener hands out a fresh Channel per consumer. *Pool and *SQSOpener implement it.
type Opener interface {
	Open() Channel
}
