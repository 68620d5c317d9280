package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEnqueueTimeout bounds how long Send waits for queue space.
const DefaultEnqueueTimeout = 5 * time.Second

// task is one request queued on the pool with the mailbox its reply goes to.
type task struct {
	payload []byte
	reply   *poolChannel
}

// Pool runs HandleRequest on a fixed set of goroutines fed by a buffered queue.
type Pool struct {
	tasks          chan task
	handler        HandlerFunc
	workerCount    int
	responseBuffer int
	enqueueTimeout time.Duration
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	startOnce      sync.Once
	stopOnce       sync.Once
}

// PoolOption customises a Pool.
type PoolOption func(*Pool)

// WithHandler replaces the request handler.
func WithHandler(h HandlerFunc) PoolOption {
	return func(p *Pool) { p.handler = h }
}

// WithEnqueueTimeout sets how long Send waits when the queue is full.
func WithEnqueueTimeout(d time.Duration) PoolOption {
	return func(p *Pool) { p.enqueueTimeout = d }
}

// NewPool creates a pool with the given number of workers, queue size and
// per-consumer response buffer.
func NewPool(workerCount, queueSize, responseBuffer int, opts ...PoolOption) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		tasks:          make(chan task, queueSize),
		handler:        HandleRequest,
		workerCount:    workerCount,
		responseBuffer: responseBuffer,
		enqueueTimeout: DefaultEnqueueTimeout,
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		logger.Info("Starting worker pool", zap.Int("worker_count", p.workerCount))

		for i := 0; i < p.workerCount; i++ {
			workerID := i
			p.wg.Add(1)

			go func() {
				defer p.wg.Done()
				logger.Debug("Derivation worker started", zap.Int("worker_id", workerID))

				for {
					select {
					case <-p.ctx.Done():
						logger.Debug("Derivation worker stopped", zap.Int("worker_id", workerID))
						return
					case t := <-p.tasks:
						p.process(t)
					}
				}
			}()
		}
	})
}

// Stop stops the workers. Queued requests that have not started are dropped
// and their consumers see ErrPoolStopped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		logger.Info("Stopping worker pool")
		p.cancel()
		p.wg.Wait()
		logger.Info("Worker pool stopped")
	})
}

// Open returns a new consumer channel. Responses to requests sent on it are
// delivered only to it.
func (p *Pool) Open() Channel {
	return &poolChannel{
		id:        uuid.New(),
		pool:      p,
		responses: make(chan []byte, p.responseBuffer),
		closed:    make(chan struct{}),
	}
}

func (p *Pool) process(t task) {
	resp := p.handle(t.payload)

	select {
	case t.reply.responses <- resp:
	case <-t.reply.closed:
		logger.Debug("Dropping response for closed consumer", logger.ConsumerID(t.reply.id.String()))
	case <-p.ctx.Done():
	}
}

func (p *Pool) handle(payload []byte) (resp []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Recovered panic in worker pool", zap.Any("panic", rec))
			resp = fallbackResponse
		}
	}()
	return p.handler(p.ctx, payload)
}

// poolChannel is a consumer's mailbox on a Pool.
type poolChannel struct {
	id        uuid.UUID
	pool      *Pool
	responses chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func (c *poolChannel) Send(ctx context.Context, msg []byte) error {
	if err := c.usable(); err != nil {
		return err
	}

	timer := time.NewTimer(c.pool.enqueueTimeout)
	defer timer.Stop()

	select {
	case c.pool.tasks <- task{payload: msg, reply: c}:
		logger.Debug("Worker request queued", logger.ConsumerID(c.id.String()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.pool.ctx.Done():
		return ErrPoolStopped
	case <-timer.C:
		return ErrQueueFull
	}
}

func (c *poolChannel) Receive(ctx context.Context) ([]byte, error) {
	select {
	case resp := <-c.responses:
		return resp, nil
	default:
	}

	select {
	case resp := <-c.responses:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, ErrChannelClosed
	case <-c.pool.ctx.Done():
		return nil, ErrPoolStopped
	}
}

func (c *poolChannel) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *poolChannel) usable() error {
	select {
	case <-c.closed:
		return ErrChannelClosed
	case <-c.pool.ctx.Done():
		return ErrPoolStopped
	default:
		return nil
	}
}
