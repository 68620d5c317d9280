// Package lifecycle tracks the generation of one dashboard's charts and cards
// on the consuming side of the worker protocol.
package lifecycle

import (
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/worker"
)

// Status is the coarse state of a dashboard.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
)

// State is what presentation reads. Derived fields are nil until the first
// successful generation.
type State struct {
	Status               Status                    `json:"status"`
	IsGenerating         bool                      `json:"isGenerating"`
	Charts               *business.FinancialCharts `json:"charts"`
	Cards                *business.DashboardCards  `json:"cards"`
	CurrentYearCalendar  *business.CalendarCharts  `json:"currentYearCalendar"`
	PreviousYearCalendar *business.CalendarCharts  `json:"previousYearCalendar"`
}

// InitialState is Idle with nothing derived.
func InitialState() State {
	return State{Status: StatusIdle}
}

// Action is a state transition. The set of actions is closed.
type Action interface {
	isAction()
}

// GenerationStarted is dispatched when a request is issued.
type GenerationStarted struct{}

// GenerationSucceeded carries the payload of an Ok response.
type GenerationSucceeded struct {
	Payload worker.DashboardPayload
}

// GenerationFailed carries the failure of an Err response. The failure is
// reported to the fault boundary and is not kept in state.
type GenerationFailed struct {
	Failure result.Failure
}

func (GenerationStarted) isAction()   {}
func (GenerationSucceeded) isAction() {}
func (GenerationFailed) isAction()    {}

// Reduce applies action to state and returns the new state.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case GenerationStarted:
		state.Status = StatusGenerating
		state.IsGenerating = true
		return state

	case GenerationSucceeded:
		payload := a.Payload
		return State{
			Status:               StatusReady,
			Charts:               &payload.Charts,
			Cards:                &payload.Cards,
			CurrentYearCalendar:  &payload.CurrentYearCalendar,
			PreviousYearCalendar: &payload.PreviousYearCalendar,
		}

	case GenerationFailed:
		return InitialState()

	default:
		return state
	}
}
