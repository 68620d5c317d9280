package business

import "github.com/cyphera/cyphera-metrics/internal/constants"

// FormattingParams controls how card values are rendered.
type FormattingParams struct {
	Currency string `json:"currency" validate:"omitempty,iso4217"`
	Locale   string `json:"locale" validate:"omitempty,bcp47_language_tag"`
}

// StatisticCard is a formatted summary of one value and its change over the prior period.
type StatisticCard struct {
	Heading          string  `json:"heading"`
	Date             string  `json:"date"`
	Value            string  `json:"value"`
	RawValue         float64 `json:"rawValue"`
	PercentageChange string  `json:"percentageChange"`
	DeltaTextEnd     string  `json:"deltaTextEnd"`
}

// PERTCards maps Y-axis variables onto the cards shown for them.
type PERTCards map[PERTYAxis][]StatisticCard

// DashboardCards holds every card for the active calendar view.
type DashboardCards struct {
	CalendarView constants.CalendarView        `json:"calendarView" validate:"required,calendarview"`
	Profit       PERTCards                     `json:"profit"`
	Revenue      PERTCards                     `json:"revenue"`
	Expenses     PERTCards                     `json:"expenses"`
	Transactions PERTCards                     `json:"transactions"`
	OtherMetrics map[OtherMetric]StatisticCard `json:"otherMetrics"`
}

// Category returns the cards of one PERT category.
func (d DashboardCards) Category(category PERTCategory) PERTCards {
	switch category {
	case CategoryProfit:
		return d.Profit
	case CategoryRevenue:
		return d.Revenue
	case CategoryExpenses:
		return d.Expenses
	case CategoryTransactions:
		return d.Transactions
	default:
		return nil
	}
}

// SetCategory stores the cards of one PERT category.
func (d *DashboardCards) SetCategory(category PERTCategory, cards PERTCards) {
	switch category {
	case CategoryProfit:
		d.Profit = cards
	case CategoryRevenue:
		d.Revenue = cards
	case CategoryExpenses:
		d.Expenses = cards
	case CategoryTransactions:
		d.Transactions = cards
	}
}

// YAxisLabels is the fixed lookup from Y-axis variable to the series it
// shows. Bar and line charts draw one series per label; cards use them as headings.
var YAxisLabels = map[PERTYAxis][]string{
	YAxisTotal:    {LabelTotal},
	YAxisOverview: {LabelTotal, LabelSalesTotal, LabelRepair},
	YAxisAll:      {LabelTotal, LabelRepair, LabelInStore, LabelOnline},
	YAxisRepair:   {LabelRepair},
	YAxisSales:    {LabelSalesTotal, LabelInStore, LabelOnline},
	YAxisInStore:  {LabelInStore},
	YAxisOnline:   {LabelOnline},
}
