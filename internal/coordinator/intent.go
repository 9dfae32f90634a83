package coordinator

import (
	"context"
	"fmt"

	"aghi-dashboard/internal/types"
)

// IntentKind enumerates the commands the UI may send.
type IntentKind int

const (
	IntentStartup IntentKind = iota
	IntentDrillDown
	IntentSetPersona
	IntentRefresh
	IntentReprocess
	IntentSearch
	IntentSelectSuggestion
	IntentSelectDistrict
	IntentSetTrendMetric
	IntentCycleTrendMetric
	IntentChat
	IntentBriefing
	IntentBriefingHistory
	IntentStateDetails
)

var intentNames = [...]string{
	IntentStartup:          "startup",
	IntentDrillDown:        "drill_down",
	IntentSetPersona:       "set_persona",
	IntentRefresh:          "refresh",
	IntentReprocess:        "reprocess",
	IntentSearch:           "search",
	IntentSelectSuggestion: "select_suggestion",
	IntentSelectDistrict:   "select_district",
	IntentSetTrendMetric:   "set_trend_metric",
	IntentCycleTrendMetric: "cycle_trend_metric",
	IntentChat:             "chat",
	IntentBriefing:         "briefing",
	IntentBriefingHistory:  "briefing_history",
	IntentStateDetails:     "state_details",
}

func (k IntentKind) String() string {
	if k >= 0 && int(k) < len(intentNames) {
		return intentNames[k]
	}
	return fmt.Sprintf("intent(%d)", int(k))
}

// Intent is a user command. Only the fields its Kind reads need be set.
type Intent struct {
	Kind     IntentKind
	Region   string
	Persona  types.Persona
	Query    string
	Record   types.RegionRecord
	District string
	Metric   types.TrendMetric
}

// Dispatch runs the intent to completion. It blocks like the navigation
// method it maps to.
func (c *Coordinator) Dispatch(ctx context.Context, in Intent) error {
	c.log.Debug("dispatch", "intent", in.Kind)
	switch in.Kind {
	case IntentStartup:
		c.Startup(ctx)
	case IntentDrillDown:
		c.DrillDown(ctx, in.Region)
	case IntentSetPersona:
		p, err := types.ParsePersona(string(in.Persona))
		if err != nil {
			return err
		}
		c.SetPersona(ctx, p)
	case IntentRefresh:
		c.Refresh(ctx)
	case IntentReprocess:
		c.Reprocess(ctx)
	case IntentSearch:
		c.Search(in.Query)
	case IntentSelectSuggestion:
		c.SelectSuggestion(ctx, in.Record)
	case IntentSelectDistrict:
		c.SelectDistrict(ctx, in.District)
	case IntentSetTrendMetric:
		c.SetTrendMetric(ctx, in.Metric)
	case IntentCycleTrendMetric:
		c.CycleTrendMetric(ctx)
	case IntentChat:
		c.Chat(ctx, in.Query)
	case IntentBriefing:
		c.GenerateBriefing(ctx)
	case IntentBriefingHistory:
		c.BriefingHistory(ctx)
	case IntentStateDetails:
		c.ShowStateDetails(ctx)
	default:
		return fmt.Errorf("unknown intent %v", in.Kind)
	}
	return nil
}
