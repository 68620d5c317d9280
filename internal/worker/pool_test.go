package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPool(t *testing.T, opts ...worker.PoolOption) *worker.Pool {
	t.Helper()
	pool := worker.NewPool(2, 8, 4, opts...)
	pool.Start()
	t.Cleanup(pool.Stop)
	return pool
}

func TestPoolDerivesThroughClient(t *testing.T) {
	pool := startPool(t)
	client := worker.NewClient(pool.Open())
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := client.Derive(ctx, validRequest())

	payload, ok := resp.Value()
	require.True(t, ok)
	assert.Len(t, payload.Charts.DailyCharts.Revenue.Line[business.YAxisAll], 4)
}

func TestPoolSendsExactlyOneResponsePerRequest(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	echo := func(_ context.Context, raw []byte) []byte {
		mu.Lock()
		calls++
		mu.Unlock()
		return raw
	}
	// A single worker keeps responses in request order.
	pool := worker.NewPool(1, 8, 4, worker.WithHandler(echo))
	pool.Start()
	defer pool.Stop()

	ch := pool.Open()
	ctx := context.Background()
	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, ch.Send(ctx, []byte(msg)))
	}
	for _, expected := range []string{"a", "b", "c"} {
		got, err := ch.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, string(got))
	}

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err := ch.Receive(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	assert.Equal(t, 3, calls)
	mu.Unlock()
}

func TestPoolChannelsAreConsumerAffine(t *testing.T) {
	echo := func(_ context.Context, raw []byte) []byte { return raw }
	pool := startPool(t, worker.WithHandler(echo))

	first := pool.Open()
	second := pool.Open()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, first.Send(ctx, []byte("first")))
	require.NoError(t, second.Send(ctx, []byte("second")))

	got, err := second.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
	got, err = first.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
}

func TestPoolRecoversHandlerPanics(t *testing.T) {
	boom := func(context.Context, []byte) []byte { panic("boom") }
	pool := startPool(t, worker.WithHandler(boom))
	client := worker.NewClient(pool.Open())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, failed := client.Derive(ctx, validRequest()).Failure()
	require.True(t, failed)
	assert.Equal(t, apperrors.KindUnknown, f.Kind)
	assert.Equal(t, worker.MsgUnhandled, f.Message)
}

func TestPoolChannelLifecycle(t *testing.T) {
	pool := worker.NewPool(1, 1, 1)
	pool.Start()
	ctx := context.Background()

	closed := pool.Open()
	require.NoError(t, closed.Close())
	assert.ErrorIs(t, closed.Send(ctx, []byte("x")), worker.ErrChannelClosed)
	_, err := closed.Receive(ctx)
	assert.ErrorIs(t, err, worker.ErrChannelClosed)

	open := pool.Open()
	pool.Stop()
	assert.ErrorIs(t, open.Send(ctx, []byte("x")), worker.ErrPoolStopped)
	_, err = open.Receive(ctx)
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestPoolQueueFull(t *testing.T) {
	// Not started, so nothing drains the queue.
	pool := worker.NewPool(1, 1, 1, worker.WithEnqueueTimeout(10*time.Millisecond))
	defer pool.Stop()

	ch := pool.Open()
	require.NoError(t, ch.Send(context.Background(), []byte("fills the queue")))
	assert.ErrorIs(t, ch.Send(context.Background(), []byte("overflow")), worker.ErrQueueFull)
}
