package charts

import "github.com/cyphera/cyphera-metrics/internal/types/business"

// PERTPoint is the raw breakdown of one PERT category at one axis position.
type PERTPoint struct {
	Label      string  `json:"label"`
	Total      float64 `json:"total"`
	Repair     float64 `json:"repair"`
	SalesTotal float64 `json:"salesTotal"`
	InStore    float64 `json:"inStore"`
	Online     float64 `json:"online"`
}

// Labeled returns the value drawn by a series label.
func (p PERTPoint) Labeled(label string) float64 {
	switch label {
	case business.LabelTotal:
		return p.Total
	case business.LabelRepair:
		return p.Repair
	case business.LabelSalesTotal, business.LabelSales:
		return p.SalesTotal
	case business.LabelInStore:
		return p.InStore
	case business.LabelOnline:
		return p.Online
	default:
		return 0
	}
}

func pertPoint(label string, block business.PERTBlock) PERTPoint {
	return PERTPoint{
		Label:      label,
		Total:      block.Total,
		Repair:     block.Repair,
		SalesTotal: block.Sales.Total,
		InStore:    block.Sales.InStore,
		Online:     block.Sales.Online,
	}
}

// BuildPERTSeries returns one point per axis unit for a category.
func BuildPERTSeries(axis Axis, category business.PERTCategory) []PERTPoint {
	points := make([]PERTPoint, 0, len(axis.Units))
	for _, u := range axis.Units {
		points = append(points, pertPoint(u.Label, u.Values.PERT(category)))
	}
	return points
}

func pertBar(labelKey string, points []PERTPoint) map[business.PERTYAxis][]business.BarDatum {
	out := make(map[business.PERTYAxis][]business.BarDatum, len(business.PERTYAxes))
	for _, yAxis := range business.PERTYAxes {
		labels := business.YAxisLabels[yAxis]
		data := make([]business.BarDatum, 0, len(points))
		for _, p := range points {
			datum := business.BarDatum{LabelKey: labelKey, Label: p.Label, Values: make([]business.SeriesValue, 0, len(labels))}
			for _, label := range labels {
				datum.Values = append(datum.Values, business.SeriesValue{Name: label, Value: p.Labeled(label)})
			}
			data = append(data, datum)
		}
		out[yAxis] = data
	}
	return out
}

func pertLine(points []PERTPoint) map[business.PERTYAxis][]business.LineSeries {
	out := make(map[business.PERTYAxis][]business.LineSeries, len(business.PERTYAxes))
	for _, yAxis := range business.PERTYAxes {
		labels := business.YAxisLabels[yAxis]
		series := make([]business.LineSeries, 0, len(labels))
		for _, label := range labels {
			line := business.LineSeries{ID: label, Data: make([]business.XYPoint, 0, len(points))}
			for _, p := range points {
				line.Data = append(line.Data, business.XYPoint{X: p.Label, Y: p.Labeled(label)})
			}
			series = append(series, line)
		}
		out[yAxis] = series
	}
	return out
}

// snapshotLabels are the slices of pie and radial charts.
var snapshotLabels = map[business.PERTYAxis][]string{
	business.YAxisOverview: {business.LabelRepair, business.LabelSales},
	business.YAxisAll:      {business.LabelRepair, business.LabelInStore, business.LabelOnline},
}

func pertPie(snapshot PERTPoint) map[business.PERTYAxis][]business.PieSlice {
	out := make(map[business.PERTYAxis][]business.PieSlice, len(business.SnapshotYAxes))
	for _, yAxis := range business.SnapshotYAxes {
		labels := snapshotLabels[yAxis]
		slices := make([]business.PieSlice, 0, len(labels))
		for _, label := range labels {
			slices = append(slices, business.PieSlice{ID: label, Label: label, Value: snapshot.Labeled(label)})
		}
		out[yAxis] = slices
	}
	return out
}

func pertRadial(snapshot PERTPoint) map[business.PERTYAxis][]business.RadialSeries {
	out := make(map[business.PERTYAxis][]business.RadialSeries, len(business.SnapshotYAxes))
	for _, yAxis := range business.SnapshotYAxes {
		labels := snapshotLabels[yAxis]
		series := make([]business.RadialSeries, 0, len(labels))
		for _, label := range labels {
			series = append(series, business.RadialSeries{
				ID:   label,
				Data: []business.XYPoint{{X: snapshot.Label, Y: snapshot.Labeled(label)}},
			})
		}
		out[yAxis] = series
	}
	return out
}

func otherMetricsCharts(axis Axis) business.OtherMetricsCharts {
	charts := business.OtherMetricsCharts{
		Bar:  make(map[business.OtherMetric][]business.BarDatum, len(business.OtherMetrics)),
		Line: make(map[business.OtherMetric][]business.LineSeries, len(business.OtherMetrics)),
	}
	for _, metric := range business.OtherMetrics {
		label := business.OtherMetricLabels[metric]
		bar := make([]business.BarDatum, 0, len(axis.Units))
		line := business.LineSeries{ID: label, Data: make([]business.XYPoint, 0, len(axis.Units))}
		for _, u := range axis.Units {
			v := u.Values.Other(metric)
			bar = append(bar, business.BarDatum{
				LabelKey: axis.LabelKey,
				Label:    u.Label,
				Values:   []business.SeriesValue{{Name: label, Value: v}},
			})
			line.Data = append(line.Data, business.XYPoint{X: u.Label, Y: v})
		}
		charts.Bar[metric] = bar
		charts.Line[metric] = []business.LineSeries{line}
	}
	return charts
}

// granularityCharts builds every category's charts over axis. snapshot holds
// the values of the selected period for pie and radial charts.
func granularityCharts(axis Axis, snapshotLabel string, snapshot business.MetricValues) business.GranularityCharts {
	var g business.GranularityCharts
	for _, category := range business.PERTCategories {
		points := BuildPERTSeries(axis, category)
		selected := pertPoint(snapshotLabel, snapshot.PERT(category))
		g.SetCategory(category, business.PERTCharts{
			Bar:    pertBar(axis.LabelKey, points),
			Line:   pertLine(points),
			Pie:    pertPie(selected),
			Radial: pertRadial(selected),
		})
	}
	g.OtherMetrics = otherMetricsCharts(axis)
	return g
}
