package ui

import (
	"strings"
	"testing"
	"time"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/types"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{nil, ""},
		{[]float64{1, 2, 3}, "▁▄█"},
		{[]float64{5, 5}, "▅▅"},
		{[]float64{10, 0}, "█▁"},
	}
	for _, tc := range tests {
		if got := Sparkline(tc.in); got != tc.want {
			t.Errorf("Sparkline(%v)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrendsTextHighlightsSelectedMetric(t *testing.T) {
	v := coordinator.TrendsView{
		Region:   "Bihar",
		District: "Patna",
		Metric:   types.MetricUpdates,
		Points: []types.TrendPoint{
			{Month: "2025-01", AGHIScore: 40, TotalUpdates: 1000},
			{Month: "2025-02", AGHIScore: 44, TotalUpdates: 1500},
		},
	}
	got := TrendsText(v)
	if !strings.Contains(got, "Patna, Bihar") {
		t.Errorf("missing scope:\n%s", got)
	}
	if !strings.Contains(got, "▸ "+tagFoam+"Updates") {
		t.Errorf("updates not highlighted:\n%s", got)
	}
	if !strings.Contains(got, "2025-02  1.5K") {
		t.Errorf("missing month values of the selected metric:\n%s", got)
	}
	if TrendsText(coordinator.TrendsView{Region: "Goa"}) != tagMute+"No trend data available"+tagOff {
		t.Error("empty series should render the placeholder")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Thiruvananthapuram", 10); got != "Thiruvana…" {
		t.Errorf("truncate=%q", got)
	}
	if got := truncate("Goa", 10); got != "Goa" {
		t.Errorf("truncate=%q", got)
	}
	if got := truncate("Goa", 0); got != "" {
		t.Errorf("truncate=%q", got)
	}
}

func TestFormatShift(t *testing.T) {
	if got := formatShift(3); !strings.Contains(got, "▲3") {
		t.Errorf("formatShift(3)=%q", got)
	}
	if got := formatShift(-2); !strings.Contains(got, "▼2") {
		t.Errorf("formatShift(-2)=%q", got)
	}
	if got := formatShift(0.2); !strings.Contains(got, "–") {
		t.Errorf("formatShift(0.2)=%q", got)
	}
}

func TestScoreTag(t *testing.T) {
	for score, want := range map[float64]string{90: tagPine, 65: tagFoam, 50: tagGold, 20: tagLove} {
		if got := ScoreTag(score); got != want {
			t.Errorf("ScoreTag(%v)=%q, want %q", score, got, want)
		}
	}
}

func TestOperationsTableFlagsSLA(t *testing.T) {
	data := OperationsTable(coordinator.OperationsView{
		Region: "National",
		Data: types.OperationsData{
			SLA:       types.SLA{EnrollmentTAT: 97, UpdateTAT: 88, GrievanceTAT: 70},
			Watchlist: []types.WatchItem{{Name: "Centre 12", Failures: 40, Risk: 80, Status: "Critical"}},
		},
	})
	if len(data.Rows) != 8 {
		t.Fatalf("rows=%d, want 8", len(data.Rows))
	}
	for i, want := range []string{"on target", "at risk", "breached"} {
		if !strings.Contains(data.Rows[i+1][2], want) {
			t.Errorf("row %d status=%q, want %q", i+1, data.Rows[i+1][2], want)
		}
	}
}

func TestBriefingMarkdown(t *testing.T) {
	md := BriefingMarkdown(types.Briefing{
		Target:   "National",
		Sections: []types.BriefingSection{{Title: "Risks", Content: "  Two states below 40.  "}},
	}, nil)
	want := "# Executive briefing: National\n\n## Risks\n\nTwo states below 40.\n\n"
	if md != want {
		t.Errorf("markdown=%q, want %q", md, want)
	}
}

func TestSuggestionItems(t *testing.T) {
	res := coordinator.SearchResult{
		Query:     "ke",
		States:    []types.RegionRecord{{State: "Kerala"}},
		Districts: []types.RegionRecord{{State: "Karnataka", District: "Kolar"}},
	}
	items, recs := SuggestionItems(res)
	if len(items) != 2 || len(recs) != 2 {
		t.Fatalf("items=%d recs=%d", len(items), len(recs))
	}
	if recs[0].IsDistrict() || !recs[1].IsDistrict() {
		t.Error("state entries must select the state, district entries the district")
	}

	items, recs = SuggestionItems(coordinator.SearchResult{Query: "zz"})
	if len(items) != 1 || recs != nil || !strings.Contains(items[0], "No results") {
		t.Errorf("no-results items=%v recs=%v", items, recs)
	}
}

func TestBriefingMarkdownWithDiagnosis(t *testing.T) {
	md := BriefingMarkdown(types.Briefing{Target: "Kerala"}, &types.Diagnosis{
		State:              "Kerala",
		PrimaryPillarIssue: types.PillarGap{Label: "Update Success", Score: 41, NationalAvg: 55, Gap: -14},
		Diagnosis:          "Rejections cluster in two districts.",
		CriticalDistricts:  []string{"Idukki", "Wayanad"},
	})
	for _, want := range []string{"## Root-cause diagnosis", "Update Success", "Rejections cluster", "Idukki", "Wayanad"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

var biharForecast = types.Forecast{
	Trend:     "improving",
	NextMonth: 46,
	SixMonth:  51.5,
	Forecast: types.ForecastSeries{
		Date:       []string{"2025-04", "2025-05"},
		Forecast:   []float64{46, 47.2},
		LowerBound: []float64{43.1, 43.9},
		UpperBound: []float64{48.9, 50.5},
	},
}

func TestForecastText(t *testing.T) {
	got := ForecastText(biharForecast, &types.ForecastInsight{
		Entity:         "Bihar",
		Message:        "Bihar is on track to leave the critical band.",
		Recommendation: "Keep extra enrolment camps open.",
	})
	for _, want := range []string{"improving", "2025-04", "47.2", "43.1 – 48.9", "43.9 – 50.5", "51.5", "critical band", "enrolment camps"} {
		if !strings.Contains(got, want) {
			t.Errorf("forecast missing %q:\n%s", want, got)
		}
	}
}

func TestTrendsTextAppendsForecast(t *testing.T) {
	f := biharForecast
	v := coordinator.TrendsView{
		Region:   "Bihar",
		Metric:   types.MetricAGHI,
		Points:   []types.TrendPoint{{Month: "2025-03", AGHIScore: 44}},
		Forecast: &f,
	}
	if got := TrendsText(v); !strings.Contains(got, "Forecast") || !strings.Contains(got, "2025-05") {
		t.Errorf("trends without forecast:\n%s", got)
	}
	v.Forecast = nil
	if got := TrendsText(v); strings.Contains(got, "Forecast") {
		t.Errorf("national trends carried a forecast:\n%s", got)
	}
}

func TestStateCardText(t *testing.T) {
	d := types.StateDetails{State: "Bihar", LatestAGHI: 44, DistrictCount: 10}
	for i := 0; i < 10; i++ {
		d.Districts = append(d.Districts, types.DistrictScore{District: "D" + string(rune('A'+i)), AGHIScore: float64(60 - i)})
	}
	got := StateCardText(d)
	if !strings.Contains(got, "Bihar") || !strings.Contains(got, "DA") || !strings.Contains(got, "DH") {
		t.Errorf("card=%s", got)
	}
	if strings.Contains(got, "DI") || !strings.Contains(got, "2 more") {
		t.Errorf("card should cap the district list:\n%s", got)
	}
}

func TestHistoryText(t *testing.T) {
	if got := HistoryText(nil); !strings.Contains(got, "No briefings archived yet") {
		t.Errorf("empty history=%q", got)
	}
	got := HistoryText([]archive.Entry{
		{ID: 2, Briefing: types.Briefing{Target: "Kerala", Sections: []types.BriefingSection{{Title: "Risks"}}},
			SavedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)},
		{ID: 1, Briefing: types.Briefing{Target: "National"}},
	})
	kerala, national := strings.Index(got, "Kerala"), strings.Index(got, "National")
	if kerala < 0 || national < 0 || kerala > national {
		t.Errorf("history out of order:\n%s", got)
	}
	if !strings.Contains(got, "Risks") || !strings.Contains(got, "saved 2025-03-02 10:00") {
		t.Errorf("history=%s", got)
	}
}

const districtsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"district": "Gaya"},
     "geometry": {"type": "Polygon", "coordinates": [[[84,24],[86,24],[86,26],[84,26],[84,24]]]}}
  ]
}`

func TestDistrictCardShowsCentre(t *testing.T) {
	bounds, err := geometry.Parse(types.LevelDistrict, "test", []byte(districtsGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	got := DistrictCardText(types.RegionRecord{State: "Bihar", District: "Gaya"}, bounds)
	if !strings.Contains(got, "24.80°N 84.80°E") {
		t.Errorf("card missing centre:\n%s", got)
	}
	if got := DistrictCardText(types.RegionRecord{State: "Bihar", District: "Patna"}, bounds); strings.Contains(got, "Centre") {
		t.Errorf("card for a district without boundaries has a centre:\n%s", got)
	}
	if got := DistrictCardText(types.RegionRecord{State: "Bihar", District: "Gaya"}, nil); strings.Contains(got, "Centre") {
		t.Errorf("card without boundaries has a centre:\n%s", got)
	}
}
