package lifecycle

//go:generate mockgen -destination=../mocks/mock_requester.go -package=mocks github.com/cyphera/cyphera-metrics/internal/lifecycle Requester

import (
	"context"
	"fmt"
	"sync"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Requester runs one derivation round trip. *worker.Client implements it.
type Requester interface {
	Derive(ctx context.Context, req worker.Request) worker.Response
}

// FaultBoundary receives failures that presentation must surface.
type FaultBoundary func(result.Failure)

// Controller owns the state of one mounted dashboard.
type Controller struct {
	requester Requester
	fault     FaultBoundary

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	subscribers []chan State
}

// NewController mounts a controller. It stays mounted until Unmount is called
// or parent is done.
func NewController(parent context.Context, requester Requester, fault FaultBoundary) *Controller {
	ctx, cancel := context.WithCancel(parent)
	if fault == nil {
		fault = func(f result.Failure) {
			logger.Error("Dashboard generation failed", logger.Kind(f.Kind), zap.String("message", f.Message))
		}
	}
	return &Controller{
		requester: requester,
		fault:     fault,
		ctx:       ctx,
		cancel:    cancel,
		state:     InitialState(),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mounted reports whether results are still being applied.
func (c *Controller) Mounted() bool {
	return c.ctx.Err() == nil
}

// Dispatch applies action if the controller is mounted and reports whether it did.
func (c *Controller) Dispatch(action Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ctx.Err() != nil {
		return false
	}
	c.state = Reduce(c.state, action)
	for _, sub := range c.subscribers {
		select {
		case sub <- c.state:
		default:
			logger.Debug("Dropping state snapshot for slow subscriber")
		}
	}
	return true
}

// Generate issues req. A later call does not cancel an earlier one; every
// response that arrives while mounted is applied in arrival order.
func (c *Controller) Generate(req worker.Request) {
	if !c.Dispatch(GenerationStarted{}) {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.commit(c.derive(req))
	}()
}

// Wait blocks until every issued request has been resolved.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Subscribe returns a channel of state snapshots. It is closed on Unmount.
func (c *Controller) Subscribe() <-chan State {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := make(chan State, subscriberBuffer)
	if c.ctx.Err() != nil {
		close(sub)
		return sub
	}
	c.subscribers = append(c.subscribers, sub)
	return sub
}

// Unmount stops applying results. Responses still in flight are discarded.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	for _, sub := range c.subscribers {
		close(sub)
	}
	c.subscribers = nil
}

func (c *Controller) derive(req worker.Request) (resp worker.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Recovered panic in dashboard generation", zap.Any("panic", rec))
			resp = result.Err[worker.DashboardPayload](apperrors.KindUnknown, fmt.Sprint(rec), worker.MsgUnhandled)
		}
	}()

	resp = c.requester.Derive(c.ctx, req)
	if !resp.IsOk() {
		return resp
	}
	// Requesters other than worker.Client may skip response validation.
	if f, failed := validation.Check(resp, worker.ResponseShape).Failure(); failed {
		return result.Fail[worker.DashboardPayload](f).WithMessage(worker.MsgInvalidResponse)
	}
	return resp
}

func (c *Controller) commit(resp worker.Response) {
	if payload, ok := resp.Value(); ok {
		if !c.Dispatch(GenerationSucceeded{Payload: payload}) {
			logger.Debug("Discarding response for unmounted dashboard")
		}
		return
	}

	f, _ := resp.Failure()
	if !c.Dispatch(GenerationFailed{Failure: f}) {
		logger.Debug("Discarding failure for unmounted dashboard", logger.Kind(f.Kind))
		return
	}
	c.fault(f)
}
