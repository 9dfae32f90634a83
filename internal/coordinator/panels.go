package coordinator

import (
	"context"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/gateway"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/types"
)

// Gateway is the data access the coordinator needs. *gateway.Client
// satisfies it.
type Gateway interface {
	Overview(ctx context.Context) (types.Overview, error)
	MapData(ctx context.Context, level types.MapLevel) ([]types.RegionRecord, error)
	CachedMapData(level types.MapLevel) ([]types.RegionRecord, bool)
	Rankings(ctx context.Context, level types.MapLevel, limit int, state string) (types.Rankings, error)
	Trends(ctx context.Context, region, district string) ([]types.TrendPoint, error)
	Anomalies(ctx context.Context) (types.Anomalies, error)
	Operations(ctx context.Context, region string) (types.OperationsData, error)
	Forecasts(ctx context.Context) (types.Forecasts, error)
	StateDetails(ctx context.Context, state string) (types.StateDetails, error)
	Briefing(ctx context.Context, region string) (types.Briefing, error)
	Diagnose(ctx context.Context, region string) (types.Diagnosis, error)
	Chat(ctx context.Context, query string) (types.ChatReply, error)
	RefreshData(ctx context.Context) (gateway.RefreshAck, error)
	ClearCache()
}

// Geometry yields boundary bundles. *geometry.Store satisfies it.
type Geometry interface {
	EnsureLoaded(ctx context.Context, level types.MapLevel) (*geometry.Bundle, error)
}

// BriefingArchive keeps generated briefings. *archive.Store satisfies it.
type BriefingArchive interface {
	SaveBriefing(ctx context.Context, b types.Briefing) error
	List(ctx context.Context, target string, limit int) ([]archive.Entry, error)
}

// MapView is everything the map renderer needs for one draw.
type MapView struct {
	Level      types.MapLevel
	Region     string
	Records    []types.RegionRecord
	Boundaries *geometry.Bundle
	// GeometryErr is set when no boundaries could be loaded; the map still
	// renders its records.
	GeometryErr error
}

// RankingsView is one draw of the rankings panel.
type RankingsView struct {
	Level    types.MapLevel
	Region   string
	Rankings types.Rankings
}

// TrendsView is one draw of the trend grid. Forecast and Insight are set
// when the API projects the selected state.
type TrendsView struct {
	Region   string
	District string
	Metric   types.TrendMetric
	Points   []types.TrendPoint
	Forecast *types.Forecast
	Insight  *types.ForecastInsight
}

// OperationsView is one draw of the operations monitor.
type OperationsView struct {
	Region string
	Data   types.OperationsData
}

// Panels receives rendered state. Every call replaces what the target panel
// shows. Implementations must not call back into the coordinator
// synchronously.
type Panels interface {
	RenderOverview(ov types.Overview)
	RenderMap(v MapView)
	RenderRankings(v RankingsView)
	RenderTrends(v TrendsView)
	RenderAlerts(a types.Anomalies)
	RenderOperations(v OperationsView)
	RenderLoading(panel types.PanelID)
	RenderFailure(panel types.PanelID, err error)

	SetBreadcrumb(text string)
	SetStatus(text string)
	SetDistricts(districts []string)
	SetTrendMetric(m types.TrendMetric)

	ShowSuggestions(r SearchResult)
	HideSuggestions()
	ShowDistrictCard(rec types.RegionRecord)
	ShowStateCard(d types.StateDetails)
	// ShowBriefing shows b; diag is nil when the diagnosis could not be
	// fetched.
	ShowBriefing(b types.Briefing, diag *types.Diagnosis)
	ShowBriefingHistory(entries []archive.Entry)
	ShowChatReply(query string, reply types.ChatReply)
}
