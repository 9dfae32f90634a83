package ui

import (
	"fmt"
	"strings"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/types"
)

// MapTable lays out the choropleth as a table of regions, one row per record
// in dataset order.
func MapTable(v coordinator.MapView) TableData {
	title := " India by state "
	if v.Level == types.LevelDistrict {
		title = fmt.Sprintf(" %s by district ", v.Region)
	}
	if v.GeometryErr != nil {
		title += "(no boundaries) "
	}
	data := TableData{
		Title: title,
		Rows:  [][]string{{"Region", "AGHI", "Category", "Success", "Pending", "Updates", "Geo"}},
		Empty: fmt.Sprintf("No regions reported for %s", v.Region),
	}
	for _, r := range v.Records {
		geo := tagMute + "·" + tagOff
		if v.Boundaries.Has(r.Name()) {
			geo = tagFoam + "◆" + tagOff
		}
		data.Rows = append(data.Rows, []string{
			truncate(r.Name(), maxCellWidth),
			formatScore(r.AGHIScore),
			truncate(r.PerformanceCategory, 16),
			formatPercent(r.SuccessRate),
			formatPercent(r.PendingRatio),
			formatCount(r.TotalUpdates),
			geo,
		})
	}
	return data
}

// RankingsTable stacks the top performers over the bottom performers.
func RankingsTable(v coordinator.RankingsView) TableData {
	scope := "states"
	if v.Level == types.LevelDistrict {
		scope = "districts of " + v.Region
	}
	data := TableData{
		Title: fmt.Sprintf(" Rankings: %s ", scope),
		Rows:  [][]string{{"#", "Region", "AGHI", "Shift"}},
	}
	add := func(label string, recs []types.RegionRecord) {
		if len(recs) == 0 {
			return
		}
		data.Rows = append(data.Rows, []string{tagIris + label + tagOff, "", "", ""})
		for i, r := range recs {
			rank := r.Rank
			if rank == 0 {
				rank = i + 1
			}
			data.Rows = append(data.Rows, []string{
				fmt.Sprintf("%d", rank),
				truncate(r.Name(), maxCellWidth),
				formatScore(r.AGHIScore),
				formatShift(r.RankShift),
			})
		}
	}
	add("Top", v.Rankings.TopPerformers)
	add("Bottom", v.Rankings.BottomPerformers)
	return data
}

// OperationsTable is the ops monitor: SLA, failure causes and the watchlist.
func OperationsTable(v coordinator.OperationsView) TableData {
	d := v.Data
	data := TableData{
		Title: fmt.Sprintf(" Operations: %s ", v.Region),
		Rows: [][]string{
			{"Metric", "Value", "Status"},
			{"Enrollment TAT", formatPercent(d.SLA.EnrollmentTAT), slaStatus(d.SLA.EnrollmentTAT)},
			{"Update TAT", formatPercent(d.SLA.UpdateTAT), slaStatus(d.SLA.UpdateTAT)},
			{"Grievance TAT", formatPercent(d.SLA.GrievanceTAT), slaStatus(d.SLA.GrievanceTAT)},
			{"Biometric mismatch", formatPercent(d.Failures.BioMismatch), ""},
			{"Document quality", formatPercent(d.Failures.DocQuality), ""},
			{"Technical error", formatPercent(d.Failures.TechError), ""},
		},
	}
	for _, w := range d.Watchlist {
		data.Rows = append(data.Rows, []string{
			truncate(w.Name, maxCellWidth),
			fmt.Sprintf("%d failures, risk %.0f", w.Failures, w.Risk),
			watchStatus(w.Status),
		})
	}
	return data
}

func slaStatus(v float64) string {
	switch {
	case v >= 95:
		return tagFoam + "on target" + tagOff
	case v >= 85:
		return tagGold + "at risk" + tagOff
	default:
		return tagLove + "breached" + tagOff
	}
}

func watchStatus(s string) string {
	switch strings.ToLower(s) {
	case "critical":
		return tagLove + s + tagOff
	case "warning":
		return tagGold + s + tagOff
	default:
		return s
	}
}

// OverviewText is the national KPI strip.
func OverviewText(ov types.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "National AGHI %s (%s)   Update rate %s   Critical performers %s%d%s\n",
		formatScore(ov.NationalAGHI), formatChange(ov.MonthlyChange), formatPercent(ov.AvgUpdateRate),
		tagLove, ov.CriticalPerformers, tagOff)
	fmt.Fprintf(&b, "Top state %s (%s)   Inclusion %s   Top pillar %s   Resilience %.1f",
		orDash(ov.TopState), formatScore(ov.TopScore), formatPercent(ov.InclusionRate),
		orDash(ov.TopPillar), ov.ResilienceIndex)
	return b.String()
}

// AlertsText lists the anomaly feed. It is global, not scoped to the region.
func AlertsText(a types.Anomalies) string {
	if len(a.Priorities) == 0 {
		return tagMute + "No anomalies detected" + tagOff
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%d anomalies%s\n\n", tagLove, a.AnomalyCount, tagOff)
	for _, p := range a.Priorities {
		fmt.Fprintf(&b, "%s●%s %s, %s  %s\n", ScoreTag(p.AGHIScore), tagOff, p.District, p.State, formatScore(p.AGHIScore))
		if p.AlertMessage != "" {
			fmt.Fprintf(&b, "  %s\n", p.AlertMessage)
		}
		if p.RecommendedAction != "" {
			fmt.Fprintf(&b, "  %s→ %s%s\n", tagIris, p.RecommendedAction, tagOff)
		}
	}
	return b.String()
}

// DistrictCardText is the detail card opened from a district search result
// or a district map row.
func DistrictCardText(r types.RegionRecord, bounds *geometry.Bundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-], %s\n\n", r.Name(), r.State)
	fmt.Fprintf(&b, "AGHI          %s\n", formatScore(r.AGHIScore))
	fmt.Fprintf(&b, "Category      %s\n", orDash(r.PerformanceCategory))
	fmt.Fprintf(&b, "Success rate  %s\n", formatPercent(r.SuccessRate))
	fmt.Fprintf(&b, "Pending ratio %s\n", formatPercent(r.PendingRatio))
	fmt.Fprintf(&b, "Updates       %s\n", formatCount(r.TotalUpdates))
	if r.Rank > 0 {
		fmt.Fprintf(&b, "Rank          %d %s\n", r.Rank, formatShift(r.RankShift))
	}
	if lon, lat, ok := bounds.Centroid(r.Name()); ok {
		fmt.Fprintf(&b, "Centre        %.2f°N %.2f°E\n", lat, lon)
	}
	return b.String()
}

// maxCardDistricts caps the district ranking on the state card.
const maxCardDistricts = 8

// StateCardText is the detail card of a state: latest score, its best
// districts and the monthly AGHI trend.
func StateCardText(d types.StateDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-]\n\n", d.State)
	fmt.Fprintf(&b, "Latest AGHI   %s\n", formatScore(d.LatestAGHI))
	fmt.Fprintf(&b, "Districts     %d\n", d.DistrictCount)
	if len(d.Trend) > 0 {
		vals := series(d.Trend, types.MetricAGHI)
		fmt.Fprintf(&b, "Trend         %s%s\n", Sparkline(vals), change(vals))
	}
	if len(d.Districts) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	for i, ds := range d.Districts {
		if i == maxCardDistricts {
			fmt.Fprintf(&b, "%s… %d more%s\n", tagMute, len(d.Districts)-maxCardDistricts, tagOff)
			break
		}
		fmt.Fprintf(&b, "%2d. %-20s %s  %s\n", i+1, truncate(ds.District, 20),
			formatScore(ds.AGHIScore), orDash(ds.PerformanceCategory))
	}
	return b.String()
}

// HistoryText lists archived briefings, newest first.
func HistoryText(entries []archive.Entry) string {
	if len(entries) == 0 {
		return tagMute + "No briefings archived yet" + tagOff
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s#%d%s  [::b]%s[::-]  %s", tagMute, e.ID, tagOff, e.Briefing.Target, orDash(e.Briefing.Timestamp))
		if !e.SavedAt.IsZero() {
			fmt.Fprintf(&b, "  %ssaved %s%s", tagMute, e.SavedAt.Format("2006-01-02 15:04"), tagOff)
		}
		b.WriteString("\n")
		for _, sec := range e.Briefing.Sections {
			fmt.Fprintf(&b, "    %s\n", sec.Title)
		}
	}
	return b.String()
}

// SuggestionItems flattens a search result into list entries; the returned
// records line up with the items.
func SuggestionItems(r coordinator.SearchResult) ([]string, []types.RegionRecord) {
	if r.NoResults() {
		return []string{fmt.Sprintf("No results for %q", r.Query)}, nil
	}
	items := make([]string, 0, len(r.States)+len(r.Districts))
	recs := make([]types.RegionRecord, 0, len(r.States)+len(r.Districts))
	for _, s := range r.States {
		items = append(items, fmt.Sprintf("%s  %s(state)%s", s.State, tagMute, tagOff))
		recs = append(recs, types.RegionRecord{State: s.State, AGHIScore: s.AGHIScore})
	}
	for _, d := range r.Districts {
		items = append(items, fmt.Sprintf("%s, %s  %s(district)%s", d.District, d.State, tagMute, tagOff))
		recs = append(recs, d)
	}
	return items, recs
}

func orDash(s string) string {
	if s == "" {
		return "–"
	}
	return s
}
