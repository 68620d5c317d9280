// Package selector extracts the date-scoped slice of a metrics document that a
// single derivation request works on.
package selector

import (
	"fmt"
	"strconv"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"go.uber.org/zap"
)

// Lookup levels reported in NotFound payloads.
const (
	LevelStoreLocation = "storeLocation"
	LevelYear          = "year"
	LevelMonth         = "month"
	LevelDay           = "day"
)

// NotFoundDetail is the payload of a NotFound result.
type NotFoundDetail struct {
	Level string `json:"level"`
	Value string `json:"value"`
}

// SelectScopedMetrics locates the year, month and day of date in doc, plus the
// same month and day one year earlier. A missing prior year leaves Previous nil.
func SelectScopedMetrics(doc business.MetricsDocument, date business.SelectedDate, storeLocation constants.StoreLocation) result.Result[business.SelectedDateMetrics] {
	if doc.StoreLocation != storeLocation {
		return notFound(LevelStoreLocation, string(storeLocation),
			fmt.Sprintf("no metrics for store location %s", storeLocation))
	}

	year := FindYear(doc.FinancialMetrics, date.Year)
	if year == nil {
		return notFound(LevelYear, date.Year, fmt.Sprintf("no metrics for year %s", date.Year))
	}
	month := FindMonth(year.MonthlyMetrics, date.Month)
	if month == nil {
		return notFound(LevelMonth, date.Month, fmt.Sprintf("no metrics for %s %s", date.Month, date.Year))
	}
	day := FindDay(month.DailyMetrics, date.Day)
	if day == nil {
		return notFound(LevelDay, date.Day, fmt.Sprintf("no metrics for %s %s %s", date.Month, date.Day, date.Year))
	}

	selected := business.SelectedDateMetrics{
		Date:     date,
		Current:  business.DateSlice{Year: year, Month: month, Day: day},
		Previous: previousSlice(doc, date),
	}

	logger.Debug("Selected scoped metrics",
		logger.StoreLocation(storeLocation),
		logger.SelectedDate(date.YYYYMMDD),
		zap.Bool("has_previous_year", selected.Previous != nil),
	)

	return result.Ok(selected)
}

// PreviousYear returns the four-digit year before year.
func PreviousYear(year string) (string, bool) {
	n, err := strconv.Atoi(year)
	if err != nil || n <= 0 {
		return "", false
	}
	return fmt.Sprintf("%04d", n-1), true
}

func previousSlice(doc business.MetricsDocument, date business.SelectedDate) *business.DateSlice {
	prior, ok := PreviousYear(date.Year)
	if !ok {
		return nil
	}
	year := FindYear(doc.FinancialMetrics, prior)
	if year == nil {
		return nil
	}

	slice := &business.DateSlice{Year: year}
	if slice.Month = FindMonth(year.MonthlyMetrics, date.Month); slice.Month != nil {
		slice.Day = FindDay(slice.Month.DailyMetrics, date.Day)
	}
	return slice
}

func notFound(level, value, message string) result.Result[business.SelectedDateMetrics] {
	return result.Err[business.SelectedDateMetrics](apperrors.KindNotFound,
		NotFoundDetail{Level: level, Value: value}, message)
}

// FindYear returns the entry for year, or nil.
func FindYear(years []business.YearlyMetric, year string) *business.YearlyMetric {
	for i := range years {
		if years[i].Year == year {
			return &years[i]
		}
	}
	return nil
}

// FindMonth returns the entry for month, or nil.
func FindMonth(months []business.MonthlyMetric, month string) *business.MonthlyMetric {
	for i := range months {
		if months[i].Month == month {
			return &months[i]
		}
	}
	return nil
}

// FindDay returns the entry for day, or nil.
func FindDay(days []business.DailyMetric, day string) *business.DailyMetric {
	for i := range days {
		if days[i].Day == day {
			return &days[i]
		}
	}
	return nil
}
