package charts

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/selector"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
)

// Bar chart label keys per calendar view.
const (
	LabelKeyDays   = "Days"
	LabelKeyMonths = "Months"
	LabelKeyYears  = "Years"
)

// Unit is one position on a time axis. Values is zero when the document has
// no entry for the position.
type Unit struct {
	Label  string
	Values business.MetricValues
}

// Axis is the gap-free time axis of one calendar view.
type Axis struct {
	View     constants.CalendarView
	LabelKey string
	Units    []Unit
}

// DaysIn returns the number of days in a month, respecting leap years.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DailyAxis has one unit per day of the selected month.
func DailyAxis(date time.Time, month *business.MonthlyMetric) Axis {
	n := DaysIn(date.Year(), date.Month())
	axis := Axis{View: constants.CalendarViewDaily, LabelKey: LabelKeyDays, Units: make([]Unit, 0, n)}
	for d := 1; d <= n; d++ {
		label := fmt.Sprintf("%02d", d)
		unit := Unit{Label: label}
		if month != nil {
			if day := selector.FindDay(month.DailyMetrics, label); day != nil {
				unit.Values = day.MetricValues
			}
		}
		axis.Units = append(axis.Units, unit)
	}
	return axis
}

// MonthlyAxis has one unit per month of the selected year.
func MonthlyAxis(year *business.YearlyMetric) Axis {
	axis := Axis{View: constants.CalendarViewMonthly, LabelKey: LabelKeyMonths, Units: make([]Unit, 0, len(constants.Months))}
	for _, name := range constants.Months {
		unit := Unit{Label: name}
		if year != nil {
			if month := selector.FindMonth(year.MonthlyMetrics, name); month != nil {
				unit.Values = month.MetricValues
			}
		}
		axis.Units = append(axis.Units, unit)
	}
	return axis
}

// MaxYearSpan bounds the zero-filled yearly axis. Documents spanning more
// years get one unit per present year instead.
const MaxYearSpan = 100

// YearlyAxis has one unit per year from the earliest to the latest year in the
// document. Years between them that the document lacks are zero, unless the
// range exceeds MaxYearSpan.
func YearlyAxis(years []business.YearlyMetric) (Axis, error) {
	axis := Axis{View: constants.CalendarViewYearly, LabelKey: LabelKeyYears}
	if len(years) == 0 {
		return axis, nil
	}

	present := make([]int, 0, len(years))
	for _, y := range years {
		n, err := strconv.Atoi(y.Year)
		if err != nil {
			return Axis{}, fmt.Errorf("year %q is not numeric: %w", y.Year, err)
		}
		present = append(present, n)
	}
	sort.Ints(present)

	first, last := present[0], present[len(present)-1]
	if last-first+1 > MaxYearSpan {
		axis.Units = make([]Unit, 0, len(present))
		for i, n := range present {
			if i > 0 && n == present[i-1] {
				continue
			}
			axis.Units = append(axis.Units, yearUnit(years, n))
		}
		return axis, nil
	}

	axis.Units = make([]Unit, 0, last-first+1)
	for n := first; n <= last; n++ {
		axis.Units = append(axis.Units, yearUnit(years, n))
	}
	return axis, nil
}

func yearUnit(years []business.YearlyMetric, n int) Unit {
	label := fmt.Sprintf("%04d", n)
	unit := Unit{Label: label}
	if year := selector.FindYear(years, label); year != nil {
		unit.Values = year.MetricValues
	}
	return unit
}
