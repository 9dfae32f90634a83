package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"aghi-dashboard/internal/cache"
	"aghi-dashboard/internal/logger"
	"aghi-dashboard/internal/types"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{handlers: make(map[string]func(http.ResponseWriter, *http.Request))}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		h := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/api/", srv.Client(), cache.New(), 2*time.Second, logger.Discard())
	return f, c
}

func (f *fakeAPI) handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(path string) recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == path {
			return f.requests[i]
		}
	}
	return recordedRequest{}
}

func TestOverviewIsCached(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/overview", `{"national_aghi": 61.2, "top_state": "Kerala", "top_score": 82.5}`)

	for i := 0; i < 3; i++ {
		ov, err := c.Overview(context.Background())
		if err != nil {
			t.Fatalf("Overview failed: %v", err)
		}
		if ov.NationalAGHI != 61.2 || ov.TopState != "Kerala" {
			t.Errorf("Overview=%+v", ov)
		}
	}
	if n := api.count("/api/overview"); n != 1 {
		t.Errorf("overview requests=%d, want 1", n)
	}
}

func TestMapDataAndCachedPeek(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/map-data", `[{"state":"Bihar","district":"Patna","aghi_score":41.5}]`)

	if _, ok := c.CachedMapData(types.LevelDistrict); ok {
		t.Fatal("peek before fetch should miss")
	}
	recs, err := c.MapData(context.Background(), types.LevelDistrict)
	if err != nil {
		t.Fatalf("MapData failed: %v", err)
	}
	if len(recs) != 1 || recs[0].Name() != "Patna" || !recs[0].IsDistrict() {
		t.Errorf("MapData=%+v", recs)
	}
	if got := api.last("/api/map-data").Query; got != "level=district" {
		t.Errorf("query=%q, want level=district", got)
	}

	peeked, ok := c.CachedMapData(types.LevelDistrict)
	if !ok || len(peeked) != 1 {
		t.Errorf("peek after fetch=%v,%v", peeked, ok)
	}
	if _, ok := c.CachedMapData(types.LevelState); ok {
		t.Error("state level must not share the district entry")
	}
	if n := api.count("/api/map-data"); n != 1 {
		t.Errorf("map-data requests=%d, want 1", n)
	}
}

func TestRankingsScoping(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/rankings", `{"top_performers":[{"state":"Kerala","aghi_score":80,"rank":1,"rank_shift":2}],"bottom_performers":[]}`)

	tests := []struct {
		level types.MapLevel
		state string
		want  string
	}{
		{types.LevelState, types.National, "level=state&limit=10"},
		{types.LevelState, "", "level=state&limit=10"},
		{types.LevelDistrict, "Maharashtra", "level=district&limit=10&state=Maharashtra"},
	}
	for _, tc := range tests {
		r, err := c.Rankings(context.Background(), tc.level, 10, tc.state)
		if err != nil {
			t.Fatalf("Rankings failed: %v", err)
		}
		if len(r.TopPerformers) != 1 || r.TopPerformers[0].RankShift != 2 {
			t.Errorf("Rankings=%+v", r)
		}
		if got := api.last("/api/rankings").Query; got != tc.want {
			t.Errorf("query=%q, want %q", got, tc.want)
		}
	}
}

func TestTrendsDistrictFilter(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/trends", `[{"month":"2025-01","aghi_score":50,"total_updates":10}]`)

	if _, err := c.Trends(context.Background(), "Bihar", ""); err != nil {
		t.Fatal(err)
	}
	if got := api.last("/api/trends").Query; got != "state=Bihar" {
		t.Errorf("query=%q, want state=Bihar", got)
	}
	if _, err := c.Trends(context.Background(), "Bihar", "Patna"); err != nil {
		t.Fatal(err)
	}
	if got := api.last("/api/trends").Query; got != "district=Patna&state=Bihar" {
		t.Errorf("query=%q, want district=Patna&state=Bihar", got)
	}
	if n := api.count("/api/trends"); n != 2 {
		t.Errorf("trends requests=%d, want 2", n)
	}
}

func TestBriefingPostIsCachedByBody(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/generate-briefing", `{"target":"Bihar","sections":[{"title":"Executive Overview","content":"ok"}]}`)

	for _, region := range []string{"Bihar", "Bihar", "Kerala"} {
		b, err := c.Briefing(context.Background(), region)
		if err != nil {
			t.Fatalf("Briefing failed: %v", err)
		}
		if len(b.Sections) != 1 {
			t.Errorf("sections=%d, want 1", len(b.Sections))
		}
	}
	if n := api.count("/api/generate-briefing"); n != 2 {
		t.Errorf("briefing requests=%d, want 2", n)
	}
	last := api.last("/api/generate-briefing")
	if last.Method != http.MethodPost || last.Body != `{"state":"Kerala"}` {
		t.Errorf("last request=%+v", last)
	}
}

func TestChatIsNeverCached(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/chat", `{"response":"Navigating to Maharashtra view...","action":"state"}`)

	for i := 0; i < 2; i++ {
		reply, err := c.Chat(context.Background(), "show maharashtra")
		if err != nil {
			t.Fatal(err)
		}
		if reply.Action != types.ChatActionState {
			t.Errorf("Action=%q, want state", reply.Action)
		}
	}
	if n := api.count("/api/chat"); n != 2 {
		t.Errorf("chat requests=%d, want 2", n)
	}
	if got := api.last("/api/chat").Body; got != `{"message":"show maharashtra","query":"show maharashtra"}` {
		t.Errorf("chat body=%s", got)
	}
}

func TestRefreshDataClearsCache(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/overview", `{"national_aghi": 50}`)
	api.handle("/api/refresh-data", `{"status":"success","message":"Data refreshed"}`)

	if _, err := c.Overview(context.Background()); err != nil {
		t.Fatal(err)
	}
	api.handle("/api/overview", `{"national_aghi": 70}`)

	ack, err := c.RefreshData(context.Background())
	if err != nil {
		t.Fatalf("RefreshData failed: %v", err)
	}
	if ack.Status != "success" {
		t.Errorf("ack=%+v", ack)
	}
	ov, err := c.Overview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ov.NationalAGHI != 70 {
		t.Errorf("Overview after refresh=%v, want 70", ov.NationalAGHI)
	}
}

func TestRefreshDataClearsCacheEvenOnFailure(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/overview", `{"national_aghi": 50}`)
	if _, err := c.Overview(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.RefreshData(context.Background()); err == nil {
		t.Fatal("expected error from missing refresh endpoint")
	}
	if c.Cache().Len() != 0 {
		t.Errorf("cache Len=%d, want 0", c.Cache().Len())
	}
}

func TestBadStatusIsRequestError(t *testing.T) {
	api, c := newFakeAPI(t)
	api.mu.Lock()
	api.handlers["/api/operations"] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"No data found"}`)
	}
	api.mu.Unlock()

	_, err := c.Operations(context.Background(), "Atlantis")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err=%v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusNotFound || reqErr.Message != "No data found" {
		t.Errorf("RequestError=%+v", reqErr)
	}
	if c.Cache().Len() != 0 {
		t.Error("failed response was cached")
	}
}

func TestInvalidJSONIsNotCached(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/anomalies", `<html>oops</html>`)

	if _, err := c.Anomalies(context.Background()); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	api.handle("/api/anomalies", `{"anomaly_count":1,"priorities":[{"district":"Patna","state":"Bihar"}]}`)
	a, err := c.Anomalies(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.AnomalyCount != 1 || len(a.Priorities) != 1 {
		t.Errorf("Anomalies=%+v", a)
	}
}

func TestTransportFailureIsRequestError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api", nil, nil, time.Second, logger.Discard())
	_, err := c.Overview(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err=%v, want *RequestError", err)
	}
	if reqErr.Err == nil {
		t.Error("transport failure should carry the underlying error")
	}
}

func TestForecastsAreCached(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/forecasts", `{"forecasts":{"Kerala":{"historical":{"date":["2025-01"],"aghi":[80]},
		"forecast":{"date":["2025-02"],"forecast":[81],"lower_bound":[78],"upper_bound":[84]},
		"trend":"improving","next_month":81,"six_month":84}},
		"insights":[{"entity":"Kerala","type":"positive","message":"Kerala improving","recommendation":"Keep going"}]}`)

	for i := 0; i < 2; i++ {
		f, err := c.Forecasts(context.Background())
		if err != nil {
			t.Fatalf("Forecasts failed: %v", err)
		}
		k, ok := f.Forecasts["Kerala"]
		if !ok || k.Forecast.UpperBound[0] != 84 || k.Trend != "improving" {
			t.Errorf("Forecasts=%+v", f)
		}
		if in, ok := f.Insight("Kerala"); !ok || in.Type != "positive" {
			t.Errorf("Insight=%+v,%v", in, ok)
		}
	}
	if n := api.count("/api/forecasts"); n != 1 {
		t.Errorf("forecast requests=%d, want 1", n)
	}
}

func TestStateDetailsPath(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/state/Tamil Nadu", `{"state":"Tamil Nadu","latest_aghi":66.4,"district_count":2,
		"districts":[{"district":"Chennai","aghi_score":71,"performance_category":"Good"}]}`)

	d, err := c.StateDetails(context.Background(), "Tamil Nadu")
	if err != nil {
		t.Fatalf("StateDetails failed: %v", err)
	}
	if d.LatestAGHI != 66.4 || d.DistrictCount != 2 || d.Districts[0].District != "Chennai" {
		t.Errorf("StateDetails=%+v", d)
	}
	if _, err := c.StateDetails(context.Background(), types.National); err == nil {
		t.Error("expected error for National")
	}
	if n := api.count("/api/state/Tamil Nadu"); n != 1 {
		t.Errorf("state requests=%d, want 1", n)
	}
}

func TestDiagnoseIsCachedByBody(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/diagnose", `{"state":"Bihar","diagnosis":"High backlog detected.",
		"primary_pillar_issue":{"id":"system_stability","label":"System Stability","score":40,"national_avg":55,"gap":15},
		"critical_districts":["Gaya"]}`)

	for _, region := range []string{"Bihar", "Bihar", ""} {
		d, err := c.Diagnose(context.Background(), region)
		if err != nil {
			t.Fatalf("Diagnose failed: %v", err)
		}
		if d.PrimaryPillarIssue.Gap != 15 || d.CriticalDistricts[0] != "Gaya" {
			t.Errorf("Diagnose=%+v", d)
		}
	}
	if n := api.count("/api/diagnose"); n != 2 {
		t.Errorf("diagnose requests=%d, want 2", n)
	}
	if got := api.last("/api/diagnose").Body; got != `{"state":"National"}` {
		t.Errorf("last body=%s", got)
	}
}

func TestHealthIsNeverCached(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle("/api/health", `{"status":"healthy","data_records":1200}`)

	for i := 0; i < 2; i++ {
		h, err := c.Health(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if h.Status != "healthy" || h.DataRecords != 1200 {
			t.Errorf("Health=%+v", h)
		}
	}
	if n := api.count("/api/health"); n != 2 {
		t.Errorf("health requests=%d, want 2", n)
	}
}
