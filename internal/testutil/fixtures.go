// Package testutil builds metrics documents for unit tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
)

// PERT builds a PERT block.
func PERT(total, repair, salesTotal, inStore, online float64) business.PERTBlock {
	return business.PERTBlock{
		Total:  total,
		Repair: repair,
		Sales: business.SalesBlock{
			Total:   salesTotal,
			InStore: inStore,
			Online:  online,
		},
	}
}

// Uniform builds metric values where every PERT block equals block and the
// scalar metrics are aov, conversion and margin.
func Uniform(block business.PERTBlock, aov, conversion, margin float64) business.MetricValues {
	return business.MetricValues{
		Profit:            block,
		Revenue:           block,
		Expenses:          block,
		Transactions:      block,
		AverageOrderValue: aov,
		ConversionRate:    conversion,
		NetProfitMargin:   margin,
	}
}

// Scaled builds metric values derived from a single number so tests can tell
// positions apart: every PERT field is n, and scalar metrics are n/10.
func Scaled(n float64) business.MetricValues {
	return Uniform(PERT(n, n, n, n, n), n/10, n/10, n/10)
}

// Day builds a daily metric.
func Day(day string, values business.MetricValues) business.DailyMetric {
	return business.DailyMetric{Day: day, MetricValues: values}
}

// Month builds a monthly metric.
func Month(month string, values business.MetricValues, days ...business.DailyMetric) business.MonthlyMetric {
	return business.MonthlyMetric{Month: month, MetricValues: values, DailyMetrics: days}
}

// Year builds a yearly metric.
func Year(year string, values business.MetricValues, months ...business.MonthlyMetric) business.YearlyMetric {
	return business.YearlyMetric{Year: year, MetricValues: values, MonthlyMetrics: months}
}

// Document builds a metrics document.
func Document(location constants.StoreLocation, years ...business.YearlyMetric) business.MetricsDocument {
	return business.MetricsDocument{
		ID:               "doc-1",
		UserID:           "user-1",
		StoreLocation:    location,
		FinancialMetrics: years,
	}
}

// FullYear builds a year with every month and day populated. Each day's value
// is its day of year, each month's value is its month number times 100.
func FullYear(year int) business.YearlyMetric {
	months := make([]business.MonthlyMetric, 0, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		days := make([]business.DailyMetric, 0, 31)
		for d := first; d.Month() == m; d = d.AddDate(0, 0, 1) {
			days = append(days, Day(d.Format(constants.DayLayout), Scaled(float64(d.YearDay()))))
		}
		months = append(months, Month(constants.Months[m-1], Scaled(float64(int(m)*100)), days...))
	}
	return Year(fmt.Sprintf("%04d", year), Scaled(float64(year)), months...)
}

// SingleDayDocument is the smallest valid document: one year, one month, one day.
func SingleDayDocument() business.MetricsDocument {
	profit := PERT(100, 20, 80, 50, 30)
	values := business.MetricValues{
		Profit:            profit,
		Revenue:           PERT(200, 40, 160, 100, 60),
		Expenses:          PERT(100, 20, 80, 50, 30),
		Transactions:      PERT(10, 2, 8, 5, 3),
		AverageOrderValue: 25,
		ConversionRate:    3.5,
		NetProfitMargin:   50,
	}
	return Document(constants.Calgary,
		Year("2025", values,
			Month("January", values,
				Day("01", values),
			),
		),
	)
}

// Date builds a selected date.
func Date(year int, month time.Month, day int) business.SelectedDate {
	return business.NewSelectedDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
