// Package types: navigation state and the datasets exchanged between the gateway,
// the coordinator and the panels.
package types

import "fmt"

// National is the region name used for the whole-country view.
const National = "National"

// Persona is a UI mode that decides which panels and metrics are emphasized.
type Persona string

const (
	PersonaNational Persona = "national"
	PersonaState    Persona = "state"
	PersonaOps      Persona = "ops"
)

// ParsePersona accepts the persona names used by the menu and the chat actions.
func ParsePersona(s string) (Persona, error) {
	switch Persona(s) {
	case PersonaNational, PersonaState, PersonaOps:
		return Persona(s), nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}

// MapLevel is the granularity of region records shown on the map.
type MapLevel string

const (
	LevelState    MapLevel = "state"
	LevelDistrict MapLevel = "district"
)

// NavigationState is owned by the coordinator; everything else gets copies.
type NavigationState struct {
	Persona        Persona
	SelectedRegion string
	MapLevel       MapLevel
}

// PanelID names a mount point on the dashboard.
type PanelID string

const (
	PanelOverview   PanelID = "overview"
	PanelMap        PanelID = "map"
	PanelRankings   PanelID = "rankings"
	PanelTrends     PanelID = "trends"
	PanelAlerts     PanelID = "alerts"
	PanelOperations PanelID = "operations"
)

// RegionRecord is one state or district row from /map-data and /rankings.
type RegionRecord struct {
	State               string  `json:"state"`
	District            string  `json:"district,omitempty"`
	AGHIScore           float64 `json:"aghi_score"`
	PerformanceCategory string  `json:"performance_category,omitempty"`
	SuccessRate         float64 `json:"success_rate,omitempty"`
	PendingRatio        float64 `json:"pending_ratio,omitempty"`
	TotalUpdates        float64 `json:"total_updates,omitempty"`
	DistrictCount       *int    `json:"district_count,omitempty"`
	Rank                int     `json:"rank,omitempty"`
	RankShift           float64 `json:"rank_shift,omitempty"`
}

// Name is the district for district records and the state otherwise.
func (r RegionRecord) Name() string {
	if r.District != "" {
		return r.District
	}
	return r.State
}

// IsDistrict reports whether the record describes a district.
func (r RegionRecord) IsDistrict() bool {
	return r.District != ""
}

// Overview holds the national KPIs.
type Overview struct {
	NationalAGHI       float64 `json:"national_aghi"`
	MonthlyChange      float64 `json:"monthly_change"`
	AvgUpdateRate      float64 `json:"avg_update_rate"`
	CriticalPerformers int     `json:"critical_performers"`
	TopState           string  `json:"top_state"`
	TopScore           float64 `json:"top_score"`
	InclusionRate      float64 `json:"inclusion_rate"`
	TopPillar          string  `json:"top_pillar"`
	ResilienceIndex    float64 `json:"resilience_index"`
}

// Rankings is the /rankings payload.
type Rankings struct {
	TopPerformers    []RegionRecord `json:"top_performers"`
	BottomPerformers []RegionRecord `json:"bottom_performers"`
}

// TrendPoint is one month of the /trends series.
type TrendPoint struct {
	Month           string  `json:"month"`
	AGHIScore       float64 `json:"aghi_score"`
	EnrollmentTotal float64 `json:"enrollment_total"`
	TotalUpdates    float64 `json:"total_updates"`
	DemoUpdates     float64 `json:"demo_updates"`
	BioUpdates      float64 `json:"bio_updates"`
}

// TrendMetric selects which series the trend grid emphasizes.
type TrendMetric string

const (
	MetricAGHI       TrendMetric = "aghi"
	MetricUpdates    TrendMetric = "updates"
	MetricEnrollment TrendMetric = "enrollment"
)

// Next cycles aghi -> updates -> enrollment -> aghi.
func (m TrendMetric) Next() TrendMetric {
	switch m {
	case MetricAGHI:
		return MetricUpdates
	case MetricUpdates:
		return MetricEnrollment
	default:
		return MetricAGHI
	}
}

// Priority is one alert in the anomaly feed.
type Priority struct {
	District          string  `json:"district"`
	State             string  `json:"state"`
	AGHIScore         float64 `json:"aghi_score"`
	AlertMessage      string  `json:"alert_message"`
	RecommendedAction string  `json:"recommended_action"`
}

// Anomalies is the /anomalies payload.
type Anomalies struct {
	AnomalyCount int        `json:"anomaly_count"`
	Priorities   []Priority `json:"priorities"`
}

// SLA metrics are percentages.
type SLA struct {
	EnrollmentTAT float64 `json:"enrollment_tat"`
	UpdateTAT     float64 `json:"update_tat"`
	GrievanceTAT  float64 `json:"grievance_tat"`
}

// FailureBreakdown is the share of rejections per cause.
type FailureBreakdown struct {
	BioMismatch float64 `json:"bio_mismatch"`
	DocQuality  float64 `json:"doc_quality"`
	TechError   float64 `json:"tech_error"`
}

// WatchItem is a low-performing entity on the operations watchlist.
type WatchItem struct {
	Name     string  `json:"name"`
	Failures int     `json:"failures"`
	Risk     float64 `json:"risk"`
	Status   string  `json:"status"`
}

// OperationsData is the /operations payload.
type OperationsData struct {
	SLA       SLA              `json:"sla"`
	Failures  FailureBreakdown `json:"failures"`
	Watchlist []WatchItem      `json:"watchlist"`
}

// BriefingSection is one titled block of an executive briefing.
type BriefingSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Briefing is the /generate-briefing payload.
type Briefing struct {
	Target    string            `json:"target"`
	Timestamp string            `json:"timestamp"`
	Sections  []BriefingSection `json:"sections"`
}

// ChatAction is the optional navigation hint attached to a chat reply.
type ChatAction string

const (
	ChatActionNone     ChatAction = ""
	ChatActionState    ChatAction = "state"
	ChatActionNational ChatAction = "national"
	ChatActionReport   ChatAction = "report"
)

// ChatReply is the /chat payload.
type ChatReply struct {
	Response string     `json:"response"`
	Action   ChatAction `json:"action,omitempty"`
}

// ForecastHistory is the observed part of a forecast series.
type ForecastHistory struct {
	Date []string  `json:"date"`
	AGHI []float64 `json:"aghi"`
}

// ForecastSeries is the projected part with its confidence band.
type ForecastSeries struct {
	Date       []string  `json:"date"`
	Forecast   []float64 `json:"forecast"`
	LowerBound []float64 `json:"lower_bound"`
	UpperBound []float64 `json:"upper_bound"`
}

// Forecast is one entity's AGHI projection from /forecasts.
type Forecast struct {
	Historical ForecastHistory `json:"historical"`
	Forecast   ForecastSeries  `json:"forecast"`
	Trend      string          `json:"trend"`
	NextMonth  float64         `json:"next_month"`
	SixMonth   float64         `json:"six_month"`
}

// ForecastInsight is the advice attached to one forecast.
type ForecastInsight struct {
	Entity         string `json:"entity"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// Forecasts is the /forecasts payload, keyed by state.
type Forecasts struct {
	Forecasts map[string]Forecast `json:"forecasts"`
	Insights  []ForecastInsight   `json:"insights"`
}

// Insight returns the insight for entity, if any.
func (f Forecasts) Insight(entity string) (ForecastInsight, bool) {
	for _, in := range f.Insights {
		if in.Entity == entity {
			return in, true
		}
	}
	return ForecastInsight{}, false
}

// DistrictScore is one row of a state's district ranking.
type DistrictScore struct {
	District            string  `json:"district"`
	AGHIScore           float64 `json:"aghi_score"`
	PerformanceCategory string  `json:"performance_category"`
}

// StateDetails is the /state/<name> payload.
type StateDetails struct {
	State         string          `json:"state"`
	LatestAGHI    float64         `json:"latest_aghi"`
	DistrictCount int             `json:"district_count"`
	Districts     []DistrictScore `json:"districts"`
	Trend         []TrendPoint    `json:"trend"`
}

// PillarGap compares one index pillar against the reference average.
type PillarGap struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	NationalAvg float64 `json:"national_avg"`
	Gap         float64 `json:"gap"`
}

// Diagnosis is the /diagnose payload: the weakest pillar and its likely cause.
type Diagnosis struct {
	State              string      `json:"state"`
	PrimaryPillarIssue PillarGap   `json:"primary_pillar_issue"`
	Diagnosis          string      `json:"diagnosis"`
	Trends             string      `json:"trends"`
	AllPillars         []PillarGap `json:"all_pillars"`
	CriticalDistricts  []string    `json:"critical_districts"`
}

// Health is the /health payload.
type Health struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	DataRecords int    `json:"data_records"`
}
