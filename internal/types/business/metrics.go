package business

import (
	"fmt"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/constants"
)

// SalesBlock splits sales into in-store and online channels.
type SalesBlock struct {
	Total   float64 `json:"total" validate:"finite"`
	InStore float64 `json:"inStore" validate:"finite"`
	Online  float64 `json:"online" validate:"finite"`
}

// PERTBlock holds the shared shape of profit, expenses, revenue and transactions.
// Fields are independent observations; totals are not recomputed from parts.
type PERTBlock struct {
	Total  float64    `json:"total" validate:"finite"`
	Repair float64    `json:"repair" validate:"finite"`
	Sales  SalesBlock `json:"sales"`
}

// Labeled returns the field a series label refers to.
func (b PERTBlock) Labeled(label string) float64 {
	switch label {
	case LabelTotal:
		return b.Total
	case LabelRepair:
		return b.Repair
	case LabelSalesTotal, LabelSales:
		return b.Sales.Total
	case LabelInStore:
		return b.Sales.InStore
	case LabelOnline:
		return b.Sales.Online
	default:
		return 0
	}
}

// MetricValues is the set of values carried at every level of the hierarchy.
type MetricValues struct {
	Profit            PERTBlock `json:"profit"`
	Revenue           PERTBlock `json:"revenue"`
	Expenses          PERTBlock `json:"expenses"`
	Transactions      PERTBlock `json:"transactions"`
	AverageOrderValue float64   `json:"averageOrderValue" validate:"finite"`
	ConversionRate    float64   `json:"conversionRate" validate:"finite"`
	NetProfitMargin   float64   `json:"netProfitMargin" validate:"finite"`
}

// PERT returns the block for a category.
func (v MetricValues) PERT(category PERTCategory) PERTBlock {
	switch category {
	case CategoryProfit:
		return v.Profit
	case CategoryRevenue:
		return v.Revenue
	case CategoryExpenses:
		return v.Expenses
	case CategoryTransactions:
		return v.Transactions
	default:
		return PERTBlock{}
	}
}

// Other returns the value of one of the "other metrics".
func (v MetricValues) Other(metric OtherMetric) float64 {
	switch metric {
	case MetricAverageOrderValue:
		return v.AverageOrderValue
	case MetricConversionRate:
		return v.ConversionRate
	case MetricNetProfitMargin:
		return v.NetProfitMargin
	default:
		return 0
	}
}

// DailyMetric is the leaf of the hierarchy.
type DailyMetric struct {
	Day string `json:"day" validate:"required,dayofmonth"`
	MetricValues
}

// MonthlyMetric aggregates a month and carries its days.
type MonthlyMetric struct {
	Month string `json:"month" validate:"required,month"`
	MetricValues
	DailyMetrics []DailyMetric `json:"dailyMetrics" validate:"unique=Day,dive"`
}

// YearlyMetric aggregates a year and carries its months.
type YearlyMetric struct {
	Year string `json:"year" validate:"required,len=4,number"`
	MetricValues
	MonthlyMetrics []MonthlyMetric `json:"monthlyMetrics" validate:"unique=Month,dive"`
}

// MetricsDocument is the root aggregate for one store location.
type MetricsDocument struct {
	ID               string                  `json:"_id,omitempty"`
	UserID           string                  `json:"userId,omitempty"`
	CreatedAt        string                  `json:"createdAt,omitempty"`
	UpdatedAt        string                  `json:"updatedAt,omitempty"`
	Version          int                     `json:"__v,omitempty"`
	StoreLocation    constants.StoreLocation `json:"storeLocation" validate:"required,storelocation"`
	FinancialMetrics []YearlyMetric          `json:"financialMetrics" validate:"unique=Year,dive"`
}

// SelectedDate is the calendar position a dashboard is looking at.
type SelectedDate struct {
	Year     string `json:"year" validate:"required,len=4,number"`
	Month    string `json:"month" validate:"required,month"`
	Day      string `json:"day" validate:"required,dayofmonth"`
	YYYYMMDD string `json:"yyyyMmDd" validate:"required,datetime=2006-01-02"`
}

// NewSelectedDate builds a SelectedDate from a point in time.
func NewSelectedDate(t time.Time) SelectedDate {
	return SelectedDate{
		Year:     t.Format(constants.YearLayout),
		Month:    constants.Months[t.Month()-1],
		Day:      t.Format(constants.DayLayout),
		YYYYMMDD: t.Format(constants.ISODateLayout),
	}
}

// Time resolves the date, checking that the parts agree with each other.
func (d SelectedDate) Time() (time.Time, error) {
	month := constants.MonthNumber(d.Month)
	if month == 0 {
		return time.Time{}, fmt.Errorf("unknown month %q", d.Month)
	}
	composed := fmt.Sprintf("%s-%02d-%s", d.Year, month, d.Day)
	t, err := time.Parse(constants.ISODateLayout, composed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %s: %w", composed, err)
	}
	if d.YYYYMMDD != "" && d.YYYYMMDD != composed {
		return time.Time{}, fmt.Errorf("yyyyMmDd %s does not match %s", d.YYYYMMDD, composed)
	}
	return t, nil
}

// DateSlice is the year/month/day triple matching a calendar position.
type DateSlice struct {
	Year  *YearlyMetric  `json:"year"`
	Month *MonthlyMetric `json:"month"`
	Day   *DailyMetric   `json:"day"`
}

// Complete reports whether all three levels were located.
func (s DateSlice) Complete() bool {
	return s.Year != nil && s.Month != nil && s.Day != nil
}

// SelectedDateMetrics is the scoped slice used for one derivation request.
// Previous is nil when the document has no data for the prior year.
type SelectedDateMetrics struct {
	Date     SelectedDate `json:"date"`
	Current  DateSlice    `json:"current"`
	Previous *DateSlice   `json:"previous"`
}
