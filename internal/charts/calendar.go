package charts

import (
	"strconv"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/selector"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
)

// DeriveCalendars builds the full-year heatmap series of the selected year and
// the year before it. A year without data yields zero for every day.
func DeriveCalendars(selected *business.SelectedDateMetrics) (current, previous business.CalendarCharts) {
	if selected == nil {
		return business.CalendarCharts{}, business.CalendarCharts{}
	}
	year, err := strconv.Atoi(selected.Date.Year)
	if err != nil {
		return business.CalendarCharts{}, business.CalendarCharts{}
	}

	var prior *business.YearlyMetric
	if selected.Previous != nil {
		prior = selected.Previous.Year
	}
	return CalendarFor(year, selected.Current.Year), CalendarFor(year-1, prior)
}

// CalendarFor builds the heatmap series of one year. data may be nil.
func CalendarFor(year int, data *business.YearlyMetric) business.CalendarCharts {
	days := yearDays(year, data)

	out := business.CalendarCharts{
		Year:         time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(constants.YearLayout),
		OtherMetrics: make(map[business.OtherMetric][]business.CalendarPoint, len(business.OtherMetrics)),
	}
	for _, category := range business.PERTCategories {
		series := make(map[business.PERTYAxis][]business.CalendarPoint, len(business.CalendarYAxes))
		for _, yAxis := range business.CalendarYAxes {
			points := make([]business.CalendarPoint, 0, len(days))
			for _, d := range days {
				points = append(points, business.CalendarPoint{Day: d.Label, Value: calendarValue(d.Values.PERT(category), yAxis)})
			}
			series[yAxis] = points
		}
		out.SetCategory(category, series)
	}
	for _, metric := range business.OtherMetrics {
		points := make([]business.CalendarPoint, 0, len(days))
		for _, d := range days {
			points = append(points, business.CalendarPoint{Day: d.Label, Value: d.Values.Other(metric)})
		}
		out.OtherMetrics[metric] = points
	}
	return out
}

// yearDays lists every day of the year labeled with its ISO date.
func yearDays(year int, data *business.YearlyMetric) []Unit {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	units := make([]Unit, 0, 366)

	var month *business.MonthlyMetric
	for d := first; d.Year() == year; d = d.AddDate(0, 0, 1) {
		if d.Day() == 1 {
			month = nil
			if data != nil {
				month = selector.FindMonth(data.MonthlyMetrics, constants.Months[d.Month()-1])
			}
		}
		unit := Unit{Label: d.Format(constants.ISODateLayout)}
		if month != nil {
			if day := selector.FindDay(month.DailyMetrics, d.Format(constants.DayLayout)); day != nil {
				unit.Values = day.MetricValues
			}
		}
		units = append(units, unit)
	}
	return units
}

func calendarValue(block business.PERTBlock, yAxis business.PERTYAxis) float64 {
	switch yAxis {
	case business.YAxisTotal:
		return block.Total
	case business.YAxisRepair:
		return block.Repair
	case business.YAxisSales:
		return block.Sales.Total
	case business.YAxisInStore:
		return block.Sales.InStore
	case business.YAxisOnline:
		return block.Sales.Online
	default:
		return 0
	}
}
