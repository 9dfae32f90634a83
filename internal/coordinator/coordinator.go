// Package coordinator owns the dashboard's navigation state and keeps the
// panels in step with it. It knows nothing about the terminal; panels are
// reached through the Panels interface.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aghi-dashboard/internal/logger"
	"aghi-dashboard/internal/types"

	"golang.org/x/sync/errgroup"
)

// Defaults for Options fields left zero.
const (
	DefaultStateRegion  = "Maharashtra"
	DefaultRankingLimit = 10
	DefaultSettleDelay  = 400 * time.Millisecond
	// HistoryLimit caps the briefing history view.
	HistoryLimit = 20
)

// Options tunes a Coordinator.
type Options struct {
	// DefaultStateRegion is opened when the state persona is chosen from the
	// national view.
	DefaultStateRegion string
	RankingLimit       int
	// SettleDelay is how long a district search result waits after its
	// drill-down before the detail card is shown.
	SettleDelay time.Duration
	Archive     BriefingArchive
	Logger      *slog.Logger
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultStateRegion == "" {
		o.DefaultStateRegion = DefaultStateRegion
	}
	if o.RankingLimit <= 0 {
		o.RankingLimit = DefaultRankingLimit
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Coordinator is the single writer of NavigationState. Navigation methods
// mutate state synchronously, then block until the reload they trigger has
// settled; callers on a UI thread run them in a goroutine.
type Coordinator struct {
	gw     Gateway
	geo    Geometry
	panels Panels
	opts   Options
	log    *slog.Logger

	mu       sync.Mutex
	state    types.NavigationState
	metric   types.TrendMetric
	district string
	gens     map[types.PanelID]uint64
	subs     []func(types.NavigationState)

	// publishMu orders breadcrumb/subscriber updates so the last one out
	// always reflects the latest state.
	publishMu sync.Mutex
}

// New builds a coordinator in the initial national state. geo may be nil, in
// which case the map renders without boundaries.
func New(gw Gateway, geo Geometry, panels Panels, opts Options) *Coordinator {
	opts = opts.withDefaults()
	return &Coordinator{
		gw:     gw,
		geo:    geo,
		panels: panels,
		opts:   opts,
		log:    opts.Logger,
		state:  InitialState(),
		metric: types.MetricAGHI,
		gens:   make(map[types.PanelID]uint64),
	}
}

// State returns a copy of the current navigation state.
func (c *Coordinator) State() types.NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TrendMetric is the series the trend grid currently emphasizes.
func (c *Coordinator) TrendMetric() types.TrendMetric {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metric
}

// District is the active district filter for trends, empty for none.
func (c *Coordinator) District() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.district
}

// Subscribe registers fn to be called with the state after every change.
func (c *Coordinator) Subscribe(fn func(types.NavigationState)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Coordinator) publish() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	s := c.state
	subs := make([]func(types.NavigationState), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.panels.SetBreadcrumb(Breadcrumb(s.SelectedRegion))
	for _, fn := range subs {
		fn(s)
	}
}

// Startup loads the overview and every panel for the current state, and
// warms the map data search matches against.
func (c *Coordinator) Startup(ctx context.Context) {
	c.log.Info("startup_begin", "region", c.State().SelectedRegion)
	c.publish()
	c.panels.SetTrendMetric(c.TrendMetric())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.warmSearchIndex(ctx)
	}()
	c.reload(ctx, startupPanels...)
	<-done
	c.log.Info("startup_done")
}

// DrillDown selects region (National or a state), switches the map level to
// match and reloads every panel for the new scope.
func (c *Coordinator) DrillDown(ctx context.Context, region string) {
	c.mu.Lock()
	c.state = withRegion(c.state, region)
	c.district = ""
	s := c.state
	c.mu.Unlock()

	c.log.Info("drill_down", "region", s.SelectedRegion, "map_level", s.MapLevel)
	c.publish()
	c.reload(ctx, navigationPanels...)
}

// SetPersona switches the UI mode. The national and state personas may move
// the selected region; ops never does.
func (c *Coordinator) SetPersona(ctx context.Context, p types.Persona) {
	if _, err := types.ParsePersona(string(p)); err != nil {
		c.log.Warn("set_persona_rejected", "persona", p, "err", err)
		return
	}

	c.mu.Lock()
	c.state = withPersona(c.state, p)
	if p == types.PersonaOps {
		c.metric = types.MetricUpdates
	}
	s := c.state
	c.mu.Unlock()

	c.log.Info("set_persona", "persona", p, "region", s.SelectedRegion)
	c.publish()

	switch p {
	case types.PersonaNational:
		if s.SelectedRegion != types.National {
			c.DrillDown(ctx, types.National)
			return
		}
		// The map may have been hidden behind the ops monitor.
		c.reload(ctx, types.PanelMap)
	case types.PersonaState:
		if s.SelectedRegion == types.National {
			c.DrillDown(ctx, c.opts.DefaultStateRegion)
			return
		}
		c.reload(ctx, types.PanelMap)
	case types.PersonaOps:
		c.panels.SetTrendMetric(types.MetricUpdates)
		c.reload(ctx, types.PanelTrends, types.PanelOperations)
	}
}

// Refresh drops every cached response and reruns startup for the current
// persona and region.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.log.Info("refresh")
	c.gw.ClearCache()
	c.panels.SetStatus("Refreshing...")
	c.Startup(ctx)
}

// Reprocess asks the API to rebuild its data, then refreshes. A failed
// reprocess still refreshes; the API keeps serving its previous data.
func (c *Coordinator) Reprocess(ctx context.Context) {
	ack, err := c.gw.RefreshData(ctx)
	if err != nil {
		c.log.Warn("reprocess_failed", "err", err)
		c.panels.SetStatus(fmt.Sprintf("[red]Reprocess failed:[-] %v", err))
	} else {
		c.log.Info("reprocess_ok", "message", ack.Message)
	}
	c.Refresh(ctx)
}

// SelectDistrict narrows the trend series to one district of the selected
// state. An empty district clears the filter. It is ignored at National.
func (c *Coordinator) SelectDistrict(ctx context.Context, district string) {
	c.mu.Lock()
	if c.state.SelectedRegion == types.National {
		c.mu.Unlock()
		return
	}
	c.district = district
	c.mu.Unlock()

	c.log.Info("select_district", "district", district)
	c.reload(ctx, types.PanelTrends)
}

// SetTrendMetric changes the emphasized trend series and redraws the grid.
func (c *Coordinator) SetTrendMetric(ctx context.Context, m types.TrendMetric) {
	c.mu.Lock()
	c.metric = m
	c.mu.Unlock()

	c.panels.SetTrendMetric(m)
	c.reload(ctx, types.PanelTrends)
}

// CycleTrendMetric advances to the next trend metric.
func (c *Coordinator) CycleTrendMetric(ctx context.Context) {
	c.SetTrendMetric(ctx, c.TrendMetric().Next())
}

// Chat forwards query to the assistant, shows the reply and follows the
// reply's navigation hint.
func (c *Coordinator) Chat(ctx context.Context, query string) {
	reply, err := c.gw.Chat(ctx, query)
	if err != nil {
		c.log.Warn("chat_failed", "err", err)
		c.panels.ShowChatReply(query, types.ChatReply{Response: fmt.Sprintf("The assistant is unavailable: %v", err)})
		return
	}
	c.panels.ShowChatReply(query, reply)

	switch reply.Action {
	case types.ChatActionState:
		c.SetPersona(ctx, types.PersonaState)
	case types.ChatActionNational:
		c.SetPersona(ctx, types.PersonaNational)
	case types.ChatActionReport:
		c.GenerateBriefing(ctx)
	}
}

// GenerateBriefing fetches the executive briefing and the root-cause
// diagnosis for the selected region, shows them together and archives the
// briefing when an archive is configured. A failed diagnosis does not hold
// back the briefing.
func (c *Coordinator) GenerateBriefing(ctx context.Context) {
	region := c.State().SelectedRegion
	c.panels.SetStatus(fmt.Sprintf("Generating briefing for %s...", region))

	var (
		b    types.Briefing
		diag *types.Diagnosis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b, err = c.gw.Briefing(gctx, region)
		return err
	})
	g.Go(func() error {
		d, err := c.gw.Diagnose(gctx, region)
		if err != nil {
			c.log.Warn("diagnosis_failed", "region", region, "err", err)
			return nil
		}
		diag = &d
		return nil
	})
	if err := g.Wait(); err != nil {
		c.log.Warn("briefing_failed", "region", region, "err", err)
		c.panels.SetStatus(fmt.Sprintf("[red]Briefing for %s failed:[-] %v", region, err))
		return
	}
	if b.Target == "" {
		b.Target = region
	}
	if b.Timestamp == "" {
		b.Timestamp = c.opts.Now().Format("2006-01-02 15:04")
	}
	c.panels.ShowBriefing(b, diag)

	if c.opts.Archive != nil {
		if err := c.opts.Archive.SaveBriefing(ctx, b); err != nil {
			c.log.Warn("briefing_archive_failed", "region", region, "err", err)
			return
		}
		c.log.Info("briefing_archived", "region", region, "sections", len(b.Sections))
	}
}

// BriefingHistory lists the most recent archived briefings.
func (c *Coordinator) BriefingHistory(ctx context.Context) {
	if c.opts.Archive == nil {
		c.panels.SetStatus("[yellow]Briefing archive is disabled[-]")
		return
	}
	entries, err := c.opts.Archive.List(ctx, "", HistoryLimit)
	if err != nil {
		c.log.Warn("briefing_history_failed", "err", err)
		c.panels.SetStatus(fmt.Sprintf("[red]Briefing history failed:[-] %v", err))
		return
	}
	c.panels.ShowBriefingHistory(entries)
}

// ShowStateDetails opens the detail card of the selected state: latest
// score, district ranking and monthly trend.
func (c *Coordinator) ShowStateDetails(ctx context.Context) {
	region := c.State().SelectedRegion
	if region == types.National {
		c.panels.SetStatus("[yellow]Select a state to see its details[-]")
		return
	}
	d, err := c.gw.StateDetails(ctx, region)
	if err != nil {
		c.log.Warn("state_details_failed", "region", region, "err", err)
		c.panels.SetStatus(fmt.Sprintf("[red]Details for %s failed:[-] %v", region, err))
		return
	}
	c.panels.ShowStateCard(d)
}
