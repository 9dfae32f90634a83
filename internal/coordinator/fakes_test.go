package coordinator

import (
	"context"
	"errors"
	"sync"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/gateway"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/types"
)

var errBoom = errors.New("boom")

var (
	stateRecords = []types.RegionRecord{
		{State: "Bihar", AGHIScore: 41},
		{State: "Kerala", AGHIScore: 82},
		{State: "Maharashtra", AGHIScore: 66},
	}
	districtRecords = []types.RegionRecord{
		{State: "Bihar", District: "Patna", AGHIScore: 44},
		{State: "Bihar", District: "Gaya", AGHIScore: 38},
		{State: "Kerala", District: "Ernakulam", AGHIScore: 85},
		{State: "Maharashtra", District: "Pune", AGHIScore: 71},
		{State: "Maharashtra", District: "Nagpur", AGHIScore: 63},
	}
)

type rankingsCall struct {
	Level types.MapLevel
	Limit int
	State string
}

type trendsCall struct {
	Region   string
	District string
}

// fakeGateway serves fixed datasets and records every call.
type fakeGateway struct {
	mu         sync.Mutex
	overview   types.Overview
	fail       map[string]error
	cached     map[types.MapLevel][]types.RegionRecord
	chat       types.ChatReply
	mapGate    func(level types.MapLevel) error
	cleared    int
	refreshed  int
	mapCalls   []types.MapLevel
	rankings   []rankingsCall
	trends     []trendsCall
	operations []string
	briefings  []string
	diagnoses  []string
	forecasts  types.Forecasts
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		overview: types.Overview{NationalAGHI: 61},
		fail:     make(map[string]error),
		cached:   make(map[types.MapLevel][]types.RegionRecord),
	}
}

func (g *fakeGateway) err(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fail[op]
}

func (g *fakeGateway) setFail(op string, err error) {
	g.mu.Lock()
	g.fail[op] = err
	g.mu.Unlock()
}

func (g *fakeGateway) Overview(ctx context.Context) (types.Overview, error) {
	if err := g.err("overview"); err != nil {
		return types.Overview{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.overview, nil
}

func (g *fakeGateway) MapData(ctx context.Context, level types.MapLevel) ([]types.RegionRecord, error) {
	g.mu.Lock()
	g.mapCalls = append(g.mapCalls, level)
	gate := g.mapGate
	g.mu.Unlock()
	if gate != nil {
		if err := gate(level); err != nil {
			return nil, err
		}
	}
	if err := g.err("map"); err != nil {
		return nil, err
	}
	recs := stateRecords
	if level == types.LevelDistrict {
		recs = districtRecords
	}
	g.mu.Lock()
	g.cached[level] = recs
	g.mu.Unlock()
	return recs, nil
}

func (g *fakeGateway) CachedMapData(level types.MapLevel) ([]types.RegionRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	recs, ok := g.cached[level]
	return recs, ok
}

func (g *fakeGateway) Rankings(ctx context.Context, level types.MapLevel, limit int, state string) (types.Rankings, error) {
	g.mu.Lock()
	g.rankings = append(g.rankings, rankingsCall{level, limit, state})
	g.mu.Unlock()
	if err := g.err("rankings"); err != nil {
		return types.Rankings{}, err
	}
	return types.Rankings{TopPerformers: stateRecords[:1]}, nil
}

func (g *fakeGateway) Trends(ctx context.Context, region, district string) ([]types.TrendPoint, error) {
	g.mu.Lock()
	g.trends = append(g.trends, trendsCall{region, district})
	g.mu.Unlock()
	if err := g.err("trends"); err != nil {
		return nil, err
	}
	return []types.TrendPoint{{Month: "2025-01", AGHIScore: 50}, {Month: "2025-02", AGHIScore: 52}}, nil
}

func (g *fakeGateway) Anomalies(ctx context.Context) (types.Anomalies, error) {
	if err := g.err("alerts"); err != nil {
		return types.Anomalies{}, err
	}
	return types.Anomalies{AnomalyCount: 1, Priorities: []types.Priority{{District: "Gaya", State: "Bihar"}}}, nil
}

func (g *fakeGateway) Operations(ctx context.Context, region string) (types.OperationsData, error) {
	g.mu.Lock()
	g.operations = append(g.operations, region)
	g.mu.Unlock()
	if err := g.err("operations"); err != nil {
		return types.OperationsData{}, err
	}
	return types.OperationsData{SLA: types.SLA{EnrollmentTAT: 97}}, nil
}

func (g *fakeGateway) Briefing(ctx context.Context, region string) (types.Briefing, error) {
	g.mu.Lock()
	g.briefings = append(g.briefings, region)
	g.mu.Unlock()
	if err := g.err("briefing"); err != nil {
		return types.Briefing{}, err
	}
	return types.Briefing{Sections: []types.BriefingSection{{Title: "Executive Overview", Content: "stable"}}}, nil
}

func (g *fakeGateway) Forecasts(ctx context.Context) (types.Forecasts, error) {
	if err := g.err("forecasts"); err != nil {
		return types.Forecasts{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.forecasts, nil
}

func (g *fakeGateway) StateDetails(ctx context.Context, state string) (types.StateDetails, error) {
	if err := g.err("state"); err != nil {
		return types.StateDetails{}, err
	}
	var d types.StateDetails
	d.State = state
	for _, r := range districtRecords {
		if r.State == state {
			d.Districts = append(d.Districts, types.DistrictScore{District: r.District, AGHIScore: r.AGHIScore})
		}
	}
	d.DistrictCount = len(d.Districts)
	return d, nil
}

func (g *fakeGateway) Diagnose(ctx context.Context, region string) (types.Diagnosis, error) {
	g.mu.Lock()
	g.diagnoses = append(g.diagnoses, region)
	g.mu.Unlock()
	if err := g.err("diagnose"); err != nil {
		return types.Diagnosis{}, err
	}
	return types.Diagnosis{State: region, Diagnosis: "High backlog detected."}, nil
}

func (g *fakeGateway) Chat(ctx context.Context, query string) (types.ChatReply, error) {
	if err := g.err("chat"); err != nil {
		return types.ChatReply{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chat, nil
}

func (g *fakeGateway) RefreshData(ctx context.Context) (gateway.RefreshAck, error) {
	g.mu.Lock()
	g.refreshed++
	g.mu.Unlock()
	g.ClearCache()
	if err := g.err("refresh"); err != nil {
		return gateway.RefreshAck{}, err
	}
	return gateway.RefreshAck{Status: "success"}, nil
}

func (g *fakeGateway) ClearCache() {
	g.mu.Lock()
	g.cleared++
	g.cached = make(map[types.MapLevel][]types.RegionRecord)
	g.mu.Unlock()
}

func (g *fakeGateway) lastRankings() rankingsCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.rankings) == 0 {
		return rankingsCall{}
	}
	return g.rankings[len(g.rankings)-1]
}

func (g *fakeGateway) lastTrends() trendsCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.trends) == 0 {
		return trendsCall{}
	}
	return g.trends[len(g.trends)-1]
}

func (g *fakeGateway) operationsCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.operations...)
}

// fakeGeometry hands out an empty bundle or an error.
type fakeGeometry struct {
	err error
}

func (f fakeGeometry) EnsureLoaded(ctx context.Context, level types.MapLevel) (*geometry.Bundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &geometry.Bundle{Level: level, Source: "test"}, nil
}

// fakePanels records every call.
type fakePanels struct {
	mu          sync.Mutex
	overviews   []types.Overview
	maps        []MapView
	rankings    []RankingsView
	trends      []TrendsView
	alerts      int
	operations  []OperationsView
	loading     map[types.PanelID]int
	failures    map[types.PanelID]error
	breadcrumbs []string
	statuses    []string
	districts   [][]string
	metrics     []types.TrendMetric
	suggestions []SearchResult
	hidden      int
	cards       []types.RegionRecord
	stateCards  []types.StateDetails
	briefings   []types.Briefing
	diagnoses   []*types.Diagnosis
	histories   [][]archive.Entry
	replies     []types.ChatReply
}

func newFakePanels() *fakePanels {
	return &fakePanels{
		loading:  make(map[types.PanelID]int),
		failures: make(map[types.PanelID]error),
	}
}

func (p *fakePanels) RenderOverview(ov types.Overview) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overviews = append(p.overviews, ov)
}

func (p *fakePanels) RenderMap(v MapView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maps = append(p.maps, v)
}

func (p *fakePanels) RenderRankings(v RankingsView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rankings = append(p.rankings, v)
}

func (p *fakePanels) RenderTrends(v TrendsView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trends = append(p.trends, v)
}

func (p *fakePanels) RenderAlerts(a types.Anomalies) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts++
}

func (p *fakePanels) RenderOperations(v OperationsView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.operations = append(p.operations, v)
}

func (p *fakePanels) RenderLoading(panel types.PanelID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading[panel]++
}

func (p *fakePanels) RenderFailure(panel types.PanelID, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[panel] = err
}

func (p *fakePanels) SetBreadcrumb(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breadcrumbs = append(p.breadcrumbs, text)
}

func (p *fakePanels) SetStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, text)
}

func (p *fakePanels) SetDistricts(districts []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.districts = append(p.districts, districts)
}

func (p *fakePanels) SetTrendMetric(m types.TrendMetric) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = append(p.metrics, m)
}

func (p *fakePanels) ShowSuggestions(r SearchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestions = append(p.suggestions, r)
}

func (p *fakePanels) HideSuggestions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden++
}

func (p *fakePanels) ShowDistrictCard(rec types.RegionRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cards = append(p.cards, rec)
}

func (p *fakePanels) ShowStateCard(d types.StateDetails) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stateCards = append(p.stateCards, d)
}

func (p *fakePanels) ShowBriefing(b types.Briefing, diag *types.Diagnosis) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.briefings = append(p.briefings, b)
	p.diagnoses = append(p.diagnoses, diag)
}

func (p *fakePanels) ShowBriefingHistory(entries []archive.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.histories = append(p.histories, entries)
}

func (p *fakePanels) ShowChatReply(query string, reply types.ChatReply) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply)
}

func (p *fakePanels) lastBreadcrumb() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.breadcrumbs) == 0 {
		return ""
	}
	return p.breadcrumbs[len(p.breadcrumbs)-1]
}

func (p *fakePanels) lastMap() MapView {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.maps) == 0 {
		return MapView{}
	}
	return p.maps[len(p.maps)-1]
}

func (p *fakePanels) mapRegions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.maps))
	for _, m := range p.maps {
		out = append(out, m.Region)
	}
	return out
}

type fakeArchive struct {
	mu      sync.Mutex
	saved   []types.Briefing
	listErr error
}

func (a *fakeArchive) SaveBriefing(ctx context.Context, b types.Briefing) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, b)
	return nil
}

func (a *fakeArchive) List(ctx context.Context, target string, limit int) ([]archive.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listErr != nil {
		return nil, a.listErr
	}
	var out []archive.Entry
	for i := len(a.saved) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, archive.Entry{ID: int64(i + 1), Briefing: a.saved[i]})
	}
	return out, nil
}
