package business

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectedDate(t *testing.T) {
	d := NewSelectedDate(time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, SelectedDate{Year: "2025", Month: "March", Day: "07", YYYYMMDD: "2025-03-07"}, d)

	resolved, err := d.Time()
	require.NoError(t, err)
	assert.Equal(t, time.March, resolved.Month())
	assert.Equal(t, 7, resolved.Day())
}

func TestSelectedDateTime(t *testing.T) {
	tests := []struct {
		name    string
		date    SelectedDate
		wantErr bool
	}{
		{name: "consistent", date: SelectedDate{Year: "2024", Month: "February", Day: "29", YYYYMMDD: "2024-02-29"}},
		{name: "yyyyMmDd omitted", date: SelectedDate{Year: "2024", Month: "January", Day: "01"}},
		{name: "not a leap year", date: SelectedDate{Year: "2025", Month: "February", Day: "29", YYYYMMDD: "2025-02-29"}, wantErr: true},
		{name: "unknown month", date: SelectedDate{Year: "2025", Month: "Janvier", Day: "01"}, wantErr: true},
		{name: "mismatched literal", date: SelectedDate{Year: "2025", Month: "January", Day: "01", YYYYMMDD: "2025-01-02"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.date.Time()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBarDatumJSON(t *testing.T) {
	datum := BarDatum{
		LabelKey: "Days",
		Label:    "01",
		Values: []SeriesValue{
			{Name: LabelRepair, Value: 20},
			{Name: LabelInStore, Value: 50},
			{Name: LabelOnline, Value: 30},
		},
	}

	b, err := json.Marshal(datum)
	require.NoError(t, err)
	assert.Equal(t, `{"Days":"01","Repair":20,"In-Store":50,"Online":30}`, string(b))

	var decoded BarDatum
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, datum, decoded)

	v, ok := decoded.Value(LabelInStore)
	assert.True(t, ok)
	assert.Equal(t, 50.0, v)
	_, ok = decoded.Value(LabelTotal)
	assert.False(t, ok)
}

func TestBarDatumRejectsNested(t *testing.T) {
	var d BarDatum
	assert.Error(t, json.Unmarshal([]byte(`{"Days":"01","Total":{"x":1}}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
}

func TestMetricValuesAccessors(t *testing.T) {
	v := MetricValues{
		Profit:          PERTBlock{Total: 1},
		Revenue:         PERTBlock{Total: 2},
		Expenses:        PERTBlock{Total: 3},
		Transactions:    PERTBlock{Total: 4},
		ConversionRate:  0.5,
		NetProfitMargin: 12,
	}

	for i, c := range PERTCategories {
		assert.Equal(t, float64(i+1), v.PERT(c).Total)
	}
	assert.Equal(t, 0.5, v.Other(MetricConversionRate))
	assert.Equal(t, 12.0, v.Other(MetricNetProfitMargin))
	assert.Zero(t, v.Other(OtherMetric("bogus")))
}

func TestForView(t *testing.T) {
	f := FinancialCharts{
		DailyCharts:   GranularityCharts{Profit: PERTCharts{Bar: map[PERTYAxis][]BarDatum{YAxisTotal: {{Label: "01"}}}}},
		MonthlyCharts: GranularityCharts{Profit: PERTCharts{Bar: map[PERTYAxis][]BarDatum{YAxisTotal: {{Label: "January"}}}}},
		YearlyCharts:  GranularityCharts{Profit: PERTCharts{Bar: map[PERTYAxis][]BarDatum{YAxisTotal: {{Label: "2025"}}}}},
	}

	assert.Equal(t, "01", f.ForView(constants.CalendarViewDaily).Profit.Bar[YAxisTotal][0].Label)
	assert.Equal(t, "January", f.ForView(constants.CalendarViewMonthly).Category(CategoryProfit).Bar[YAxisTotal][0].Label)
	assert.Equal(t, "2025", f.ForView(constants.CalendarViewYearly).Profit.Bar[YAxisTotal][0].Label)
}

func TestYAxisLabelsCoverEveryAxis(t *testing.T) {
	for _, axis := range PERTYAxes {
		assert.NotEmpty(t, YAxisLabels[axis], axis)
	}
	assert.Equal(t, []string{LabelTotal, LabelSalesTotal, LabelRepair}, YAxisLabels[YAxisOverview])
}
