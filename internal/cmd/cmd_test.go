package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/lifecycle"
	"github.com/cyphera/cyphera-metrics/internal/testutil"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "", "validate", writeDocument(t, testutil.SingleDayDocument()))
	require.NoError(t, err)

	var env struct {
		Success bool            `json:"success"`
		Data    DocumentSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.True(t, env.Success)
	assert.Equal(t, DocumentSummary{StoreLocation: "Calgary", Years: 1, Months: 1, Days: 1}, env.Data)
}

func TestValidateCommandRejectsBadDocument(t *testing.T) {
	doc := testutil.SingleDayDocument()
	doc.StoreLocation = "Toronto"

	out, err := run(t, "", "validate", writeDocument(t, doc))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, out, `"kind":"ValidationError"`)
	assert.Contains(t, out, "storeLocation")
}

func TestValidateCommandReadsStdin(t *testing.T) {
	raw, err := json.Marshal(testutil.SingleDayDocument())
	require.NoError(t, err)

	out, err := run(t, string(raw), "validate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"success":true`)
}

func TestValidateCommandMissingFile(t *testing.T) {
	_, err := run(t, "", "validate", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDeriveCommand(t *testing.T) {
	out, err := run(t, "", "derive", writeDocument(t, testutil.SingleDayDocument()), "--view", "Monthly", "--pretty")
	require.NoError(t, err)

	var resp worker.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	payload, ok := resp.Value()
	require.True(t, ok)
	assert.Equal(t, constants.CalendarViewMonthly, payload.Cards.CalendarView)
	assert.Equal(t, "2025", payload.CurrentYearCalendar.Year)
}

func TestDeriveCommandFailures(t *testing.T) {
	path := writeDocument(t, testutil.SingleDayDocument())

	tests := []struct {
		name         string
		args         []string
		expectedKind apperrors.Kind
	}{
		{"date not in document", []string{"--date", "2025-01-02"}, apperrors.KindNotFound},
		{"unparseable date", []string{"--date", "01/02/2025"}, apperrors.KindValidation},
		{"unknown view", []string{"--view", "Weekly"}, apperrors.KindValidation},
		{"other location", []string{"--location", "Vancouver"}, apperrors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", append([]string{"derive", path}, tt.args...)...)
			assert.ErrorIs(t, err, ErrDerivationFailed)

			var resp worker.Response
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			f, failed := resp.Failure()
			require.True(t, failed)
			assert.Equal(t, tt.expectedKind, f.Kind)
		})
	}
}

func TestLatestDate(t *testing.T) {
	doc := testutil.Document(constants.Calgary, testutil.FullYear(2023), testutil.FullYear(2024))

	date, ok := LatestDate(doc)
	require.True(t, ok)
	assert.Equal(t, testutil.Date(2024, time.December, 31), date)

	_, ok = LatestDate(testutil.Document(constants.Calgary))
	assert.False(t, ok)
}

func TestDashboardCommand(t *testing.T) {
	out, err := run(t, "", "dashboard", writeDocument(t, testutil.SingleDayDocument()), "--workers", "2")
	require.NoError(t, err)

	var state lifecycle.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, lifecycle.StatusReady, state.Status)
	assert.False(t, state.IsGenerating)
	require.NotNil(t, state.Cards)
	assert.Equal(t, constants.CalendarViewDaily, state.Cards.CalendarView)
}

func TestDashboardCommandStream(t *testing.T) {
	out, err := run(t, "", "dashboard", writeDocument(t, testutil.SingleDayDocument()), "--stream")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, last lifecycle.State
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	assert.Equal(t, lifecycle.StatusGenerating, first.Status)
	assert.Equal(t, lifecycle.StatusReady, last.Status)
}

func TestDashboardCommandFailure(t *testing.T) {
	out, err := run(t, "", "dashboard", writeDocument(t, testutil.SingleDayDocument()), "--date", "2025-01-02")
	assert.ErrorIs(t, err, ErrDerivationFailed)
	assert.Contains(t, out, string(apperrors.KindNotFound))
	assert.Contains(t, out, `"status":"idle"`)
}
