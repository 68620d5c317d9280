package lifecycle_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/lifecycle"
	"github.com/cyphera/cyphera-metrics/internal/mocks"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/testutil"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func request(view constants.CalendarView) worker.Request {
	return worker.Request{
		Document:      testutil.SingleDayDocument(),
		SelectedDate:  testutil.Date(2025, time.January, 1),
		StoreLocation: constants.Calgary,
		CalendarView:  view,
	}
}

func payloadFor(t *testing.T, req worker.Request) worker.DashboardPayload {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	payload, ok := worker.Handle(context.Background(), raw).Value()
	require.True(t, ok)
	return payload
}

type faults struct {
	mu   sync.Mutex
	seen []result.Failure
}

func (f *faults) report(failure result.Failure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, failure)
}

func (f *faults) all() []result.Failure {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]result.Failure(nil), f.seen...)
}

func TestReduce(t *testing.T) {
	payload := payloadFor(t, request(constants.CalendarViewDaily))
	ready := lifecycle.Reduce(lifecycle.InitialState(), lifecycle.GenerationSucceeded{Payload: payload})

	tests := []struct {
		name           string
		state          lifecycle.State
		action         lifecycle.Action
		expectedStatus lifecycle.Status
		expectCharts   bool
		expectLoading  bool
	}{
		{name: "idle to generating", state: lifecycle.InitialState(), action: lifecycle.GenerationStarted{}, expectedStatus: lifecycle.StatusGenerating, expectLoading: true},
		{name: "ready to generating keeps payload", state: ready, action: lifecycle.GenerationStarted{}, expectedStatus: lifecycle.StatusGenerating, expectCharts: true, expectLoading: true},
		{name: "generating to ready", state: lifecycle.State{Status: lifecycle.StatusGenerating, IsGenerating: true}, action: lifecycle.GenerationSucceeded{Payload: payload}, expectedStatus: lifecycle.StatusReady, expectCharts: true},
		{name: "generating to idle on failure", state: lifecycle.State{Status: lifecycle.StatusGenerating, IsGenerating: true}, action: lifecycle.GenerationFailed{}, expectedStatus: lifecycle.StatusIdle},
		{name: "nil action is ignored", state: ready, action: nil, expectedStatus: lifecycle.StatusReady, expectCharts: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := lifecycle.Reduce(tt.state, tt.action)
			assert.Equal(t, tt.expectedStatus, next.Status)
			assert.Equal(t, tt.expectLoading, next.IsGenerating)
			assert.Equal(t, tt.expectCharts, next.Charts != nil)
			assert.Equal(t, tt.expectCharts, next.Cards != nil)
		})
	}

	initial := lifecycle.InitialState()
	assert.Equal(t, lifecycle.StatusIdle, initial.Status)
	assert.False(t, initial.IsGenerating)
	assert.Nil(t, initial.Charts)
	assert.Nil(t, initial.CurrentYearCalendar)
	assert.Nil(t, initial.PreviousYearCalendar)
}

func TestControllerGenerateSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	req := request(constants.CalendarViewDaily)
	payload := payloadFor(t, req)
	requester.EXPECT().Derive(gomock.Any(), req).Return(result.Ok(payload)).Times(1)

	var f faults
	c := lifecycle.NewController(context.Background(), requester, f.report)
	defer c.Unmount()
	updates := c.Subscribe()

	c.Generate(req)
	c.Wait()

	state := c.State()
	assert.Equal(t, lifecycle.StatusReady, state.Status)
	assert.False(t, state.IsGenerating)
	require.NotNil(t, state.Charts)
	assert.Equal(t, payload.Charts, *state.Charts)
	assert.Equal(t, "2024", state.PreviousYearCalendar.Year)
	assert.Empty(t, f.all())

	assert.Equal(t, lifecycle.StatusGenerating, (<-updates).Status)
	assert.Equal(t, lifecycle.StatusReady, (<-updates).Status)
}

func TestControllerGenerateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	failure := result.Err[worker.DashboardPayload](apperrors.KindNotFound, nil, worker.MsgSelecting)
	requester.EXPECT().Derive(gomock.Any(), gomock.Any()).Return(failure).Times(1)

	var f faults
	c := lifecycle.NewController(context.Background(), requester, f.report)
	defer c.Unmount()

	c.Generate(request(constants.CalendarViewDaily))
	c.Wait()

	assert.Equal(t, lifecycle.InitialState(), c.State())
	seen := f.all()
	require.Len(t, seen, 1)
	assert.Equal(t, apperrors.KindNotFound, seen[0].Kind)
	assert.Equal(t, worker.MsgSelecting, seen[0].Message)
}

func TestControllerSuppressesResponsesAfterUnmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	req := request(constants.CalendarViewDaily)
	payload := payloadFor(t, req)

	started := make(chan struct{})
	release := make(chan struct{})
	requester.EXPECT().
		Derive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, worker.Request) worker.Response {
			close(started)
			<-release
			return result.Ok(payload)
		}).
		Times(1)

	var f faults
	c := lifecycle.NewController(context.Background(), requester, f.report)
	updates := c.Subscribe()

	c.Generate(req)
	<-started
	c.Unmount()
	close(release)
	c.Wait()

	state := c.State()
	assert.Equal(t, lifecycle.StatusGenerating, state.Status)
	assert.Nil(t, state.Charts)
	assert.Empty(t, f.all())
	assert.False(t, c.Mounted())

	assert.Equal(t, lifecycle.StatusGenerating, (<-updates).Status)
	_, open := <-updates
	assert.False(t, open)

	// Nothing is issued once unmounted.
	c.Generate(req)
	c.Wait()
	assert.Equal(t, state, c.State())
}

func TestControllerSupersedesWithoutCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	daily := request(constants.CalendarViewDaily)
	yearly := request(constants.CalendarViewYearly)
	dailyPayload := payloadFor(t, daily)
	yearlyPayload := payloadFor(t, yearly)

	releaseFirst := make(chan struct{})
	firstDone := make(chan struct{})
	requester.EXPECT().
		Derive(gomock.Any(), daily).
		DoAndReturn(func(ctx context.Context, _ worker.Request) worker.Response {
			<-releaseFirst
			assert.NoError(t, ctx.Err(), "earlier request must not be cancelled")
			return result.Ok(dailyPayload)
		}).
		Times(1)
	requester.EXPECT().
		Derive(gomock.Any(), yearly).
		DoAndReturn(func(context.Context, worker.Request) worker.Response {
			<-firstDone
			return result.Ok(yearlyPayload)
		}).
		Times(1)

	c := lifecycle.NewController(context.Background(), requester, nil)
	defer c.Unmount()
	updates := c.Subscribe()

	c.Generate(daily)
	c.Generate(yearly)
	assert.Equal(t, lifecycle.StatusGenerating, (<-updates).Status)
	assert.Equal(t, lifecycle.StatusGenerating, (<-updates).Status)

	close(releaseFirst)
	first := <-updates
	require.NotNil(t, first.Cards)
	assert.Equal(t, constants.CalendarViewDaily, first.Cards.CalendarView)
	close(firstDone)

	c.Wait()
	final := c.State()
	assert.Equal(t, lifecycle.StatusReady, final.Status)
	assert.Equal(t, constants.CalendarViewYearly, final.Cards.CalendarView)
}

func TestControllerRecoversRequesterPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	requester.EXPECT().
		Derive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, worker.Request) worker.Response { panic("lost worker") }).
		Times(1)

	var f faults
	c := lifecycle.NewController(context.Background(), requester, f.report)
	defer c.Unmount()

	c.Generate(request(constants.CalendarViewDaily))
	c.Wait()

	seen := f.all()
	require.Len(t, seen, 1)
	assert.Equal(t, apperrors.KindUnknown, seen[0].Kind)
	assert.Equal(t, lifecycle.StatusIdle, c.State().Status)
}

func TestControllerRejectsInvalidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	requester := mocks.NewMockRequester(ctrl)
	requester.EXPECT().Derive(gomock.Any(), gomock.Any()).Return(result.Ok(worker.DashboardPayload{})).Times(1)

	var f faults
	c := lifecycle.NewController(context.Background(), requester, f.report)
	defer c.Unmount()

	c.Generate(request(constants.CalendarViewDaily))
	c.Wait()

	seen := f.all()
	require.Len(t, seen, 1)
	assert.Equal(t, apperrors.KindValidation, seen[0].Kind)
	assert.Equal(t, worker.MsgInvalidResponse, seen[0].Message)
	assert.Nil(t, c.State().Charts)
}
