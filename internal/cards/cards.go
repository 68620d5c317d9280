// Package cards builds the statistic cards that summarise the selected period
// against the one before it.
package cards

import (
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/helpers"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/selector"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/shopspring/decimal"
)

// NotApplicable is reported as the change when the prior value is zero.
const NotApplicable = "N/A"

var deltaText = map[constants.CalendarView]string{
	constants.CalendarViewDaily:   "vs previous day",
	constants.CalendarViewMonthly: "vs previous month",
	constants.CalendarViewYearly:  "vs previous year",
}

// period is a pair of values being compared.
type period struct {
	date     string
	current  business.MetricValues
	previous business.MetricValues
}

// DeriveCards builds the cards of every category for one calendar view.
func DeriveCards(selected *business.SelectedDateMetrics, view constants.CalendarView, params business.FormattingParams) result.Result[business.DashboardCards] {
	if selected == nil || !selected.Current.Complete() {
		return result.Err[business.DashboardCards](apperrors.KindMissingSlice, nil, "No selected date metrics")
	}
	if !view.IsValid() {
		return result.Err[business.DashboardCards](apperrors.KindValidation, string(view), "Invalid calendar view")
	}
	if errs := validation.Struct(params); len(errs) > 0 {
		return result.Err[business.DashboardCards](apperrors.KindValidation,
			validation.ValidationErrors{Boundary: "formattingParams", Errors: errs}, "Invalid formatting params")
	}

	p := comparePeriods(selected, view)
	cards := business.DashboardCards{
		CalendarView: view,
		OtherMetrics: make(map[business.OtherMetric]business.StatisticCard, len(business.OtherMetrics)),
	}
	for _, category := range business.PERTCategories {
		cards.SetCategory(category, categoryCards(p, category, view, params))
	}
	for _, metric := range business.OtherMetrics {
		cards.OtherMetrics[metric] = newCard(
			business.OtherMetricLabels[metric], p.date, view,
			p.current.Other(metric), p.previous.Other(metric),
			formatOther(metric, params),
		)
	}
	return result.Ok(cards)
}

func categoryCards(p period, category business.PERTCategory, view constants.CalendarView, params business.FormattingParams) business.PERTCards {
	format := formatPERT(category, params)
	current := p.current.PERT(category)
	previous := p.previous.PERT(category)

	out := make(business.PERTCards, len(business.PERTYAxes))
	for _, yAxis := range business.PERTYAxes {
		labels := business.YAxisLabels[yAxis]
		cards := make([]business.StatisticCard, 0, len(labels))
		for _, label := range labels {
			cards = append(cards, newCard(label, p.date, view, current.Labeled(label), previous.Labeled(label), format))
		}
		out[yAxis] = cards
	}
	return out
}

func newCard(heading, date string, view constants.CalendarView, current, previous float64, format func(float64) string) business.StatisticCard {
	return business.StatisticCard{
		Heading:          heading,
		Date:             date,
		Value:            format(current),
		RawValue:         current,
		PercentageChange: PercentageChange(current, previous),
		DeltaTextEnd:     deltaText[view],
	}
}

// PercentageChange reports (current-previous)/|previous| as a signed percent
// rounded to two places, or N/A when previous is zero.
func PercentageChange(current, previous float64) string {
	prev := decimal.NewFromFloat(previous)
	if prev.IsZero() {
		return NotApplicable
	}
	change := decimal.NewFromFloat(current).Sub(prev).
		Div(prev.Abs()).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	if change.IsPositive() {
		return "+" + change.StringFixed(2) + "%"
	}
	return change.StringFixed(2) + "%"
}

func formatPERT(category business.PERTCategory, params business.FormattingParams) func(float64) string {
	if category == business.CategoryTransactions {
		return func(v float64) string { return helpers.FormatCount(v, params.Locale) }
	}
	return func(v float64) string { return helpers.FormatMoney(v, params.Currency, params.Locale) }
}

func formatOther(metric business.OtherMetric, params business.FormattingParams) func(float64) string {
	if metric == business.MetricAverageOrderValue {
		return func(v float64) string { return helpers.FormatMoney(v, params.Currency, params.Locale) }
	}
	return func(v float64) string { return helpers.FormatPercent(v, params.Locale) }
}

// comparePeriods locates the selected period and the one before it. A missing
// prior period compares against zero.
func comparePeriods(selected *business.SelectedDateMetrics, view constants.CalendarView) period {
	current := selected.Current
	var priorYear *business.YearlyMetric
	if selected.Previous != nil {
		priorYear = selected.Previous.Year
	}

	switch view {
	case constants.CalendarViewYearly:
		p := period{date: current.Year.Year, current: current.Year.MetricValues}
		if priorYear != nil {
			p.previous = priorYear.MetricValues
		}
		return p

	case constants.CalendarViewMonthly:
		p := period{
			date:    fmt.Sprintf("%s %s", current.Month.Month, current.Year.Year),
			current: current.Month.MetricValues,
		}
		if month := previousMonth(current.Year, priorYear, current.Month.Month); month != nil {
			p.previous = month.MetricValues
		}
		return p

	default:
		p := period{date: selected.Date.YYYYMMDD, current: current.Day.MetricValues}
		if day := previousDay(selected.Date, current, priorYear); day != nil {
			p.previous = day.MetricValues
		}
		return p
	}
}

func previousMonth(year, priorYear *business.YearlyMetric, month string) *business.MonthlyMetric {
	n := constants.MonthNumber(month)
	if n > 1 {
		return selector.FindMonth(year.MonthlyMetrics, constants.Months[n-2])
	}
	if priorYear == nil {
		return nil
	}
	return selector.FindMonth(priorYear.MonthlyMetrics, constants.Months[11])
}

func previousDay(date business.SelectedDate, current business.DateSlice, priorYear *business.YearlyMetric) *business.DailyMetric {
	t, err := date.Time()
	if err != nil {
		return nil
	}
	day := t.AddDate(0, 0, -1)
	label := day.Format(constants.DayLayout)

	if day.Month() == t.Month() {
		return selector.FindDay(current.Month.DailyMetrics, label)
	}
	month := previousMonth(current.Year, priorYear, current.Month.Month)
	if month == nil {
		return nil
	}
	return selector.FindDay(month.DailyMetrics, label)
}
