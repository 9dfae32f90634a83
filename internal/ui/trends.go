package ui

import (
	"fmt"
	"strings"

	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/types"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline scales values onto eight block heights. A flat series sits on
// the middle block.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := floats.Min(values), floats.Max(values)
	out := make([]rune, len(values))
	for i, v := range values {
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

// series extracts one metric from the trend points.
func series(points []types.TrendPoint, m types.TrendMetric) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		switch m {
		case types.MetricUpdates:
			out[i] = p.TotalUpdates
		case types.MetricEnrollment:
			out[i] = p.EnrollmentTotal
		default:
			out[i] = p.AGHIScore
		}
	}
	return out
}

func metricLabel(m types.TrendMetric) string {
	switch m {
	case types.MetricUpdates:
		return "Updates"
	case types.MetricEnrollment:
		return "Enrollment"
	default:
		return "AGHI"
	}
}

// TrendsText renders the trend grid: one sparkline per metric with the
// selected metric highlighted, then the month-by-month values of the
// selected metric.
func TrendsText(v coordinator.TrendsView) string {
	if len(v.Points) == 0 {
		return tagMute + "No trend data available" + tagOff
	}
	var b strings.Builder
	scope := v.Region
	if v.District != "" {
		scope = v.District + ", " + v.Region
	}
	fmt.Fprintf(&b, "[::b]%s[::-]  %s → %s\n\n", scope, v.Points[0].Month, v.Points[len(v.Points)-1].Month)

	for _, m := range []types.TrendMetric{types.MetricAGHI, types.MetricUpdates, types.MetricEnrollment} {
		vals := series(v.Points, m)
		marker, tag := "  ", tagMute
		if m == v.Metric {
			marker, tag = "▸ ", tagFoam
		}
		fmt.Fprintf(&b, "%s%s%-10s %s%s  mean %s  last %s%s\n",
			marker, tag, metricLabel(m), Sparkline(vals), tagOff,
			formatCount(stat.Mean(vals, nil)), formatCount(vals[len(vals)-1]), change(vals))
	}

	b.WriteString("\n")
	for i, val := range series(v.Points, v.Metric) {
		fmt.Fprintf(&b, "%s  %s\n", v.Points[i].Month, formatCount(val))
	}
	if v.Forecast != nil {
		b.WriteString("\n")
		b.WriteString(ForecastText(*v.Forecast, v.Insight))
	}
	return b.String()
}

// ForecastText renders a projection with its confidence band, one line per
// projected month, followed by the insight when there is one.
func ForecastText(f types.Forecast, insight *types.ForecastInsight) string {
	var b strings.Builder
	tag := tagFoam
	if f.Trend == "declining" {
		tag = tagLove
	}
	fmt.Fprintf(&b, "[::b]Forecast[::-] %s%s%s %s  next month %s  six months %s\n",
		tag, orDash(f.Trend), tagOff, Sparkline(f.Forecast.Forecast),
		formatScore(f.NextMonth), formatScore(f.SixMonth))

	fc := f.Forecast
	for i, date := range fc.Date {
		if i >= len(fc.Forecast) {
			break
		}
		band := ""
		if i < len(fc.LowerBound) && i < len(fc.UpperBound) {
			band = fmt.Sprintf("  %s(%.1f – %.1f)%s", tagMute, fc.LowerBound[i], fc.UpperBound[i], tagOff)
		}
		fmt.Fprintf(&b, "%s  %s%s\n", date, formatScore(fc.Forecast[i]), band)
	}
	if insight != nil {
		fmt.Fprintf(&b, "\n%s\n", insight.Message)
		if insight.Recommendation != "" {
			fmt.Fprintf(&b, "%s→ %s%s\n", tagIris, insight.Recommendation, tagOff)
		}
	}
	return b.String()
}

// change is the last-over-first movement of a series.
func change(vals []float64) string {
	if len(vals) < 2 {
		return ""
	}
	first, last := vals[0], vals[len(vals)-1]
	if first == 0 {
		return ""
	}
	return "  " + formatChange((last-first)/first*100) + "%"
}
