package business

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/constants"
)

// PERTCategory names one of the four PERT categories.
type PERTCategory string

const (
	CategoryProfit       PERTCategory = "profit"
	CategoryRevenue      PERTCategory = "revenue"
	CategoryExpenses     PERTCategory = "expenses"
	CategoryTransactions PERTCategory = "transactions"
)

// PERTCategories lists the categories in display order.
var PERTCategories = []PERTCategory{CategoryProfit, CategoryRevenue, CategoryExpenses, CategoryTransactions}

// PERTYAxis selects the sub-breakdown of a PERT category to chart.
type PERTYAxis string

const (
	YAxisTotal    PERTYAxis = "total"
	YAxisAll      PERTYAxis = "all"
	YAxisOverview PERTYAxis = "overview"
	YAxisRepair   PERTYAxis = "repair"
	YAxisSales    PERTYAxis = "sales"
	YAxisInStore  PERTYAxis = "inStore"
	YAxisOnline   PERTYAxis = "online"
)

// PERTYAxes lists the bar/line Y-axis variables.
var PERTYAxes = []PERTYAxis{YAxisTotal, YAxisAll, YAxisOverview, YAxisRepair, YAxisSales, YAxisInStore, YAxisOnline}

// SnapshotYAxes lists the Y-axis variables of pie and radial charts.
var SnapshotYAxes = []PERTYAxis{YAxisOverview, YAxisAll}

// CalendarYAxes lists the single-value breakdowns used by calendar heatmaps.
var CalendarYAxes = []PERTYAxis{YAxisTotal, YAxisRepair, YAxisSales, YAxisInStore, YAxisOnline}

// OtherMetric names one of the non-PERT scalar metrics.
type OtherMetric string

const (
	MetricAverageOrderValue OtherMetric = "averageOrderValue"
	MetricConversionRate    OtherMetric = "conversionRate"
	MetricNetProfitMargin   OtherMetric = "netProfitMargin"
)

// OtherMetrics lists the scalar metrics in display order.
var OtherMetrics = []OtherMetric{MetricAverageOrderValue, MetricConversionRate, MetricNetProfitMargin}

// Series labels shared by charts and cards.
const (
	LabelTotal      = "Total"
	LabelRepair     = "Repair"
	LabelSales      = "Sales"
	LabelSalesTotal = "Sales Total"
	LabelInStore    = "In-Store"
	LabelOnline     = "Online"
)

// OtherMetricLabels maps scalar metrics onto display labels.
var OtherMetricLabels = map[OtherMetric]string{
	MetricAverageOrderValue: "Average Order Value",
	MetricConversionRate:    "Conversion Rate",
	MetricNetProfitMargin:   "Net Profit Margin",
}

// SeriesValue is one named value of a bar datum.
type SeriesValue struct {
	Name  string
	Value float64
}

// BarDatum is one position on a bar chart's time axis. It encodes flat, e.g.
// {"Days":"01","Total":100,"Repair":20}, which is the shape chart widgets consume.
type BarDatum struct {
	LabelKey string
	Label    string
	Values   []SeriesValue
}

// Value returns the named value and whether it exists.
func (b BarDatum) Value(name string) (float64, bool) {
	for _, v := range b.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// MarshalJSON writes the label first, then values in order.
func (b BarDatum) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, b.LabelKey, b.Label); err != nil {
		return nil, err
	}
	for _, v := range b.Values {
		buf.WriteByte(',')
		if err := writeMember(&buf, v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat datum. The string member is the label; every
// numeric member becomes a value, in document order.
func (b *BarDatum) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("bar datum: expected object")
	}

	out := BarDatum{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("bar datum: %w", err)
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("bar datum %s: %w", key, err)
		}
		switch v := valTok.(type) {
		case string:
			out.LabelKey = key
			out.Label = v
		case float64:
			out.Values = append(out.Values, SeriesValue{Name: key, Value: v})
		default:
			return fmt.Errorf("bar datum %s: unsupported value %v", key, valTok)
		}
	}
	*b = out
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value interface{}) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// XYPoint is a point of a line or radial series.
type XYPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// LineSeries is one line of a line chart.
type LineSeries struct {
	ID   string    `json:"id"`
	Data []XYPoint `json:"data"`
}

// PieSlice is one slice of a pie chart.
type PieSlice struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RadialSeries is one ring of a radial bar chart.
type RadialSeries struct {
	ID   string    `json:"id"`
	Data []XYPoint `json:"data"`
}

// PERTCharts holds every chart kind for one PERT category at one granularity.
type PERTCharts struct {
	Bar    map[PERTYAxis][]BarDatum     `json:"barChartData"`
	Line   map[PERTYAxis][]LineSeries   `json:"lineChartData"`
	Pie    map[PERTYAxis][]PieSlice     `json:"pieChartData"`
	Radial map[PERTYAxis][]RadialSeries `json:"radialChartData"`
}

// OtherMetricsCharts holds the bar and line charts of the scalar metrics.
type OtherMetricsCharts struct {
	Bar  map[OtherMetric][]BarDatum   `json:"barChartData"`
	Line map[OtherMetric][]LineSeries `json:"lineChartData"`
}

// GranularityCharts groups the charts of every category for one calendar view.
type GranularityCharts struct {
	Profit       PERTCharts         `json:"profit"`
	Revenue      PERTCharts         `json:"revenue"`
	Expenses     PERTCharts         `json:"expenses"`
	Transactions PERTCharts         `json:"transactions"`
	OtherMetrics OtherMetricsCharts `json:"otherMetrics"`
}

// Category returns the charts of one PERT category.
func (g GranularityCharts) Category(category PERTCategory) PERTCharts {
	switch category {
	case CategoryProfit:
		return g.Profit
	case CategoryRevenue:
		return g.Revenue
	case CategoryExpenses:
		return g.Expenses
	case CategoryTransactions:
		return g.Transactions
	default:
		return PERTCharts{}
	}
}

// SetCategory stores the charts of one PERT category.
func (g *GranularityCharts) SetCategory(category PERTCategory, charts PERTCharts) {
	switch category {
	case CategoryProfit:
		g.Profit = charts
	case CategoryRevenue:
		g.Revenue = charts
	case CategoryExpenses:
		g.Expenses = charts
	case CategoryTransactions:
		g.Transactions = charts
	}
}

// FinancialCharts is the complete chart payload of a dashboard.
type FinancialCharts struct {
	DailyCharts   GranularityCharts `json:"dailyCharts"`
	MonthlyCharts GranularityCharts `json:"monthlyCharts"`
	YearlyCharts  GranularityCharts `json:"yearlyCharts"`
}

// ForView returns the charts of one calendar view.
func (f FinancialCharts) ForView(view constants.CalendarView) GranularityCharts {
	switch view {
	case constants.CalendarViewMonthly:
		return f.MonthlyCharts
	case constants.CalendarViewYearly:
		return f.YearlyCharts
	default:
		return f.DailyCharts
	}
}

// CalendarPoint is one day of a calendar heatmap.
type CalendarPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// CalendarCharts holds the calendar heatmap series of one year.
type CalendarCharts struct {
	Year         string                          `json:"year"`
	Profit       map[PERTYAxis][]CalendarPoint   `json:"profit"`
	Revenue      map[PERTYAxis][]CalendarPoint   `json:"revenue"`
	Expenses     map[PERTYAxis][]CalendarPoint   `json:"expenses"`
	Transactions map[PERTYAxis][]CalendarPoint   `json:"transactions"`
	OtherMetrics map[OtherMetric][]CalendarPoint `json:"otherMetrics"`
}

// Category returns the heatmaps of one PERT category.
func (c CalendarCharts) Category(category PERTCategory) map[PERTYAxis][]CalendarPoint {
	switch category {
	case CategoryProfit:
		return c.Profit
	case CategoryRevenue:
		return c.Revenue
	case CategoryExpenses:
		return c.Expenses
	case CategoryTransactions:
		return c.Transactions
	default:
		return nil
	}
}

// SetCategory stores the heatmaps of one PERT category.
func (c *CalendarCharts) SetCategory(category PERTCategory, series map[PERTYAxis][]CalendarPoint) {
	switch category {
	case CategoryProfit:
		c.Profit = series
	case CategoryRevenue:
		c.Revenue = series
	case CategoryExpenses:
		c.Expenses = series
	case CategoryTransactions:
		c.Transactions = series
	}
}
