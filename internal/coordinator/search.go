package coordinator

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"aghi-dashboard/internal/types"

	"golang.org/x/text/cases"
)

// Search limits.
const (
	MinQueryLen        = 2
	MaxStateMatches    = 5
	MaxDistrictMatches = 8
)

// SearchResult is one evaluation of the search box.
type SearchResult struct {
	Query string
	// Suppressed is set for queries too short to match; the suggestion list
	// is hidden rather than shown empty.
	Suppressed bool
	States     []types.RegionRecord
	Districts  []types.RegionRecord
}

// NoResults reports a query long enough to match that matched nothing.
func (r SearchResult) NoResults() bool {
	return !r.Suppressed && len(r.States) == 0 && len(r.Districts) == 0
}

var folder = cases.Fold()

// MatchRegions matches query as a case-insensitive substring of record names,
// keeping dataset order and the per-level caps.
func MatchRegions(query string, states, districts []types.RegionRecord) SearchResult {
	q := strings.TrimSpace(query)
	res := SearchResult{Query: q}
	if utf8.RuneCountInString(q) < MinQueryLen {
		res.Suppressed = true
		return res
	}
	needle := folder.String(q)
	for _, r := range states {
		if len(res.States) == MaxStateMatches {
			break
		}
		if strings.Contains(folder.String(r.State), needle) {
			res.States = append(res.States, r)
		}
	}
	for _, r := range districts {
		if len(res.Districts) == MaxDistrictMatches {
			break
		}
		if r.District != "" && strings.Contains(folder.String(r.District), needle) {
			res.Districts = append(res.Districts, r)
		}
	}
	return res
}

// Search matches query against the map data already in the cache and shows
// the suggestions. It never touches the network or the navigation state.
func (c *Coordinator) Search(query string) SearchResult {
	states, _ := c.gw.CachedMapData(types.LevelState)
	districts, _ := c.gw.CachedMapData(types.LevelDistrict)
	res := MatchRegions(query, states, districts)
	if res.Suppressed {
		c.panels.HideSuggestions()
		return res
	}
	c.log.Debug("search", "query", res.Query, "states", len(res.States), "districts", len(res.Districts))
	c.panels.ShowSuggestions(res)
	return res
}

// SelectSuggestion drills into the record's state. A district record then
// waits the settle delay and shows its detail card.
func (c *Coordinator) SelectSuggestion(ctx context.Context, rec types.RegionRecord) {
	c.panels.HideSuggestions()
	c.DrillDown(ctx, rec.State)
	if !rec.IsDistrict() {
		return
	}
	if c.opts.SettleDelay > 0 {
		t := time.NewTimer(c.opts.SettleDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
	c.panels.ShowDistrictCard(rec)
}
