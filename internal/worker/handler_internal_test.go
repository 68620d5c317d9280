package worker

import (
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/testutil"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePayloadFailureIsRelabelled(t *testing.T) {
	req := Request{
		Document:      testutil.SingleDayDocument(),
		SelectedDate:  testutil.Date(2025, time.January, 1),
		StoreLocation: constants.Calgary,
		CalendarView:  constants.CalendarViewDaily,
	}
	incomplete := business.SelectedDateMetrics{Date: req.SelectedDate}

	resp := result.Then(result.Ok(incomplete), MsgDeriving, func(s business.SelectedDateMetrics) Response {
		return derivePayload(req, &s)
	})

	f, failed := resp.Failure()
	require.True(t, failed)
	assert.Equal(t, apperrors.KindMissingSlice, f.Kind)
	assert.Equal(t, MsgDeriving, f.Message)
}
