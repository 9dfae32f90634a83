package coordinator

import (
	"context"
	"fmt"
	"sync/atomic"

	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/metrics"
	"aghi-dashboard/internal/types"

	"golang.org/x/sync/errgroup"
)

// navigationPanels are reloaded by every drill-down.
var navigationPanels = []types.PanelID{
	types.PanelMap,
	types.PanelRankings,
	types.PanelTrends,
	types.PanelAlerts,
	types.PanelOperations,
}

// startupPanels adds the national overview to a full reload.
var startupPanels = append([]types.PanelID{types.PanelOverview}, navigationPanels...)

// scope is the state a reload was dispatched for.
type scope struct {
	nav      types.NavigationState
	district string
	metric   types.TrendMetric
}

// reload bumps the generation of each panel, fetches their data in parallel
// and hands each result to its renderer. Results that arrive after a newer
// reload of the same panel are dropped. No fetch is ever cancelled.
func (c *Coordinator) reload(ctx context.Context, panels ...types.PanelID) {
	c.mu.Lock()
	sc := scope{nav: c.state, district: c.district, metric: c.metric}
	gens := make(map[types.PanelID]uint64, len(panels))
	for _, p := range panels {
		c.gens[p]++
		gens[p] = c.gens[p]
	}
	c.mu.Unlock()

	c.log.Debug("reload_begin", "region", sc.nav.SelectedRegion, "panels", len(panels))
	for _, p := range panels {
		p := p
		c.deliver(p, gens[p], nil, func() { c.panels.RenderLoading(p) })
	}

	var loaded, failed int32
	var g errgroup.Group
	for _, p := range panels {
		p := p
		g.Go(func() error {
			// Only outcomes that reached the panel count; superseded ones
			// belong to the newer reload.
			switch applied, err := c.loadPanel(ctx, p, sc, gens[p]); {
			case !applied:
			case err != nil:
				atomic.AddInt32(&failed, 1)
			default:
				atomic.AddInt32(&loaded, 1)
			}
			// Panel failures are rendered, never propagated.
			return nil
		})
	}
	_ = g.Wait()

	c.log.Debug("reload_settled", "region", sc.nav.SelectedRegion, "loaded", loaded, "failed", failed)
	c.publish()
	status := fmt.Sprintf("[green]%s[-] (Last updated: %s)", Breadcrumb(c.State().SelectedRegion), c.opts.Now().Format("15:04:05"))
	if failed > 0 {
		status = fmt.Sprintf("[yellow]%s[-] (%d of %d panels failed to load)", Breadcrumb(c.State().SelectedRegion), failed, len(panels))
	}
	c.panels.SetStatus(status)
}

// deliver applies render if gen is still the panel's current generation, or
// renders the failure notice when err is set.
func (c *Coordinator) deliver(p types.PanelID, gen uint64, err error, render func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[p] != gen {
		metrics.StaleDiscardedTotal.WithLabelValues(string(p)).Inc()
		c.log.Debug("stale_discarded", "panel", p, "generation", gen, "current", c.gens[p])
		return false
	}
	if err != nil {
		metrics.PanelFailuresTotal.WithLabelValues(string(p)).Inc()
		c.log.Warn("panel_failed", "panel", p, "err", err)
		c.panels.RenderFailure(p, err)
		return true
	}
	render()
	return true
}

// loadPanel fetches and delivers one panel. applied is false when the result
// was superseded and dropped.
func (c *Coordinator) loadPanel(ctx context.Context, p types.PanelID, sc scope, gen uint64) (applied bool, err error) {
	nav := sc.nav
	switch p {
	case types.PanelOverview:
		ov, err := c.gw.Overview(ctx)
		return c.deliver(p, gen, err, func() { c.panels.RenderOverview(ov) }), err

	case types.PanelMap:
		records, err := c.gw.MapData(ctx, nav.MapLevel)
		if err != nil {
			return c.deliver(p, gen, err, nil), err
		}
		records = filterToRegion(records, nav.SelectedRegion)
		view := MapView{Level: nav.MapLevel, Region: nav.SelectedRegion, Records: records}
		view.Boundaries, view.GeometryErr = c.boundaries(ctx, nav.MapLevel)
		return c.deliver(p, gen, nil, func() {
			c.panels.RenderMap(view)
			if nav.SelectedRegion != types.National {
				c.panels.SetDistricts(regionNames(records))
			}
		}), nil

	case types.PanelRankings:
		r, err := c.gw.Rankings(ctx, nav.MapLevel, c.opts.RankingLimit, rankingScope(nav.SelectedRegion))
		return c.deliver(p, gen, err, func() {
			c.panels.RenderRankings(RankingsView{Level: nav.MapLevel, Region: nav.SelectedRegion, Rankings: r})
		}), err

	case types.PanelTrends:
		points, err := c.gw.Trends(ctx, nav.SelectedRegion, sc.district)
		if err != nil {
			return c.deliver(p, gen, err, nil), err
		}
		view := TrendsView{Region: nav.SelectedRegion, District: sc.district, Metric: sc.metric, Points: points}
		view.Forecast, view.Insight = c.forecast(ctx, nav.SelectedRegion)
		return c.deliver(p, gen, nil, func() { c.panels.RenderTrends(view) }), nil

	case types.PanelAlerts:
		a, err := c.gw.Anomalies(ctx)
		return c.deliver(p, gen, err, func() { c.panels.RenderAlerts(a) }), err

	case types.PanelOperations:
		ops, err := c.gw.Operations(ctx, nav.SelectedRegion)
		return c.deliver(p, gen, err, func() {
			c.panels.RenderOperations(OperationsView{Region: nav.SelectedRegion, Data: ops})
		}), err
	}
	return false, fmt.Errorf("unknown panel %q", p)
}

// forecast looks up the projection for a state. Forecasts cover only the
// best and worst states, and a failed fetch leaves the trends without one.
func (c *Coordinator) forecast(ctx context.Context, region string) (*types.Forecast, *types.ForecastInsight) {
	if region == types.National {
		return nil, nil
	}
	fc, err := c.gw.Forecasts(ctx)
	if err != nil {
		c.log.Warn("forecast_unavailable", "region", region, "err", err)
		return nil, nil
	}
	f, ok := fc.Forecasts[region]
	if !ok {
		return nil, nil
	}
	var insight *types.ForecastInsight
	if in, ok := fc.Insight(region); ok {
		insight = &in
	}
	return &f, insight
}

func (c *Coordinator) boundaries(ctx context.Context, level types.MapLevel) (*geometry.Bundle, error) {
	if c.geo == nil {
		return nil, geometry.ErrUnavailable
	}
	b, err := c.geo.EnsureLoaded(ctx, level)
	if err != nil {
		c.log.Warn("map_without_boundaries", "level", level, "err", err)
		return nil, err
	}
	return b, nil
}

// warmSearchIndex pulls both map granularities into the cache so search has
// records to match before the first drill-down.
func (c *Coordinator) warmSearchIndex(ctx context.Context) {
	var g errgroup.Group
	for _, level := range []types.MapLevel{types.LevelState, types.LevelDistrict} {
		level := level
		g.Go(func() error {
			if _, err := c.gw.MapData(ctx, level); err != nil {
				c.log.Warn("search_warmup_failed", "level", level, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func rankingScope(region string) string {
	if region == types.National {
		return ""
	}
	return region
}

// filterToRegion keeps the records of one state; National keeps everything.
func filterToRegion(records []types.RegionRecord, region string) []types.RegionRecord {
	if region == types.National {
		return records
	}
	out := make([]types.RegionRecord, 0, len(records))
	for _, r := range records {
		if r.State == region {
			out = append(out, r)
		}
	}
	return out
}

func regionNames(records []types.RegionRecord) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name())
	}
	return names
}
