// Package charts derives chart-ready projections from a date-scoped slice of a
// metrics document.
package charts

import (
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"go.uber.org/zap"
)

// DeriveCharts builds the bar, line, pie and radial charts of every category
// for the daily, monthly and yearly views. The output shares no memory with
// its inputs.
func DeriveCharts(doc business.MetricsDocument, selected *business.SelectedDateMetrics, storeLocation constants.StoreLocation) result.Result[business.FinancialCharts] {
	if selected == nil {
		return result.Err[business.FinancialCharts](apperrors.KindMissingSlice, nil, "No selected date metrics")
	}
	if !selected.Current.Complete() {
		return result.Err[business.FinancialCharts](apperrors.KindMissingSlice, nil,
			fmt.Sprintf("Selected date metrics for %s are incomplete", selected.Date.YYYYMMDD))
	}
	if doc.StoreLocation != storeLocation {
		return result.Err[business.FinancialCharts](apperrors.KindNotFound, nil,
			fmt.Sprintf("no metrics for store location %s", storeLocation))
	}
	if r := checkWellFormed(doc, selected.Current); !r.IsOk() {
		return r
	}

	date, err := selected.Date.Time()
	if err != nil {
		return result.Err[business.FinancialCharts](apperrors.KindValidation, err.Error(), "Invalid selected date")
	}
	yearly, err := YearlyAxis(doc.FinancialMetrics)
	if err != nil {
		return result.Err[business.FinancialCharts](apperrors.KindMalformedDocument, err.Error(), "Metrics document is malformed")
	}

	current := selected.Current
	charts := business.FinancialCharts{
		DailyCharts:   granularityCharts(DailyAxis(date, current.Month), current.Day.Day, current.Day.MetricValues),
		MonthlyCharts: granularityCharts(MonthlyAxis(current.Year), current.Month.Month, current.Month.MetricValues),
		YearlyCharts:  granularityCharts(yearly, current.Year.Year, current.Year.MetricValues),
	}

	logger.Debug("Derived financial charts",
		logger.StoreLocation(storeLocation),
		logger.SelectedDate(selected.Date.YYYYMMDD),
		zap.Int("years", len(yearly.Units)),
	)

	return result.Ok(charts)
}

func checkWellFormed(doc business.MetricsDocument, current business.DateSlice) result.Result[business.FinancialCharts] {
	errs := validation.Struct(doc)
	if len(errs) == 0 {
		// Located nodes may come from outside doc.
		for _, node := range []interface{}{current.Year, current.Month, current.Day} {
			errs = append(errs, validation.Struct(node)...)
		}
	}
	if len(errs) > 0 {
		return result.Err[business.FinancialCharts](apperrors.KindMalformedDocument,
			validation.ValidationErrors{Boundary: "document", Errors: errs},
			"Metrics document is malformed")
	}
	return result.Ok(business.FinancialCharts{})
}
