// Package ui is the terminal rendering layer. Dashboard implements
// coordinator.Panels on tview widgets and turns widget events into
// coordinator intents.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"aghi-dashboard/internal/archive"
	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/geometry"
	"aghi-dashboard/internal/types"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ErrMountMissing is logged when a render targets a panel that is not on the
// dashboard. The render is skipped.
var ErrMountMissing = errors.New("panel mount missing")

// ErrNoBriefing is returned by CopyBriefing before any briefing was shown.
var ErrNoBriefing = errors.New("no briefing to copy")

// mount is the widget a panel renders into; exactly one field is set.
type mount struct {
	table *tview.Table
	text  *tview.TextView
}

// Dashboard owns every widget. All widget mutation happens in functions
// handed to queue, which runs them on the draw loop.
type Dashboard struct {
	log      *slog.Logger
	queue    func(func())
	dispatch func(coordinator.Intent)

	Header        *tview.TextView
	Footer        *tview.TextView
	Menu          *tview.List
	Districts     *tview.List
	Overview      *tview.TextView
	MapTable      *tview.Table
	OpsTable      *tview.Table
	RankingsTable *tview.Table
	Trends        *tview.TextView
	Alerts        *tview.TextView
	MainSlot      *tview.Pages
	SearchInput   *tview.InputField
	Suggestions   *tview.List
	Card          *tview.TextView
	Briefing      *tview.TextView
	History       *tview.TextView
	ChatLog       *tview.TextView
	ChatInput     *tview.InputField
	Grid          *tview.Grid
	Root          *tview.Pages

	mounts map[types.PanelID]mount

	// Read and written only on the draw loop.
	breadcrumb     string
	status         string
	metric         types.TrendMetric
	persona        types.Persona
	mapRecords     []types.RegionRecord
	boundaries     *geometry.Bundle
	rankingRecords []types.RegionRecord
	suggestionRecs []types.RegionRecord
	districtNames  []string
	briefingMD     string
	open           map[string]bool
}

// NewDashboard builds the widgets. queue runs widget updates on the draw
// loop; tests pass a function that runs them inline.
func NewDashboard(queue func(func()), log *slog.Logger) *Dashboard {
	d := &Dashboard{
		log:           log,
		queue:         queue,
		dispatch:      func(coordinator.Intent) {},
		Header:        CreateHeader(),
		Footer:        CreateFooter(),
		Menu:          CreateMenu(),
		Districts:     CreateDistrictList(),
		Overview:      CreateTextPanel(" Overview "),
		MapTable:      CreateTable(" Map "),
		OpsTable:      CreateTable(" Operations "),
		RankingsTable: CreateTable(" Rankings "),
		Trends:        CreateTextPanel(" Trends "),
		Alerts:        CreateTextPanel(" Alerts "),
		SearchInput:   CreateInput("Region: "),
		Suggestions:   tview.NewList().ShowSecondaryText(false),
		Card:          CreateTextPanel(" District "),
		Briefing:      CreateTextPanel(" Briefing (y to copy, Esc to close) "),
		History:       CreateTextPanel(" Briefing history "),
		ChatLog:       CreateTextPanel(""),
		ChatInput:     CreateInput("> "),
		metric:        types.MetricAGHI,
		persona:       types.PersonaNational,
		breadcrumb:    coordinator.Breadcrumb(types.National),
		open:          make(map[string]bool),
	}
	d.ChatLog.SetBorder(false)

	d.MainSlot = tview.NewPages().
		AddPage(slotMap, d.MapTable, true, true).
		AddPage(slotOperations, d.OpsTable, true, false)

	d.mounts = map[types.PanelID]mount{
		types.PanelOverview:   {text: d.Overview},
		types.PanelMap:        {table: d.MapTable},
		types.PanelRankings:   {table: d.RankingsTable},
		types.PanelTrends:     {text: d.Trends},
		types.PanelAlerts:     {text: d.Alerts},
		types.PanelOperations: {table: d.OpsTable},
	}

	d.Grid = setupGrid(d)
	d.Root = setupPages(d)
	d.bindWidgets()
	return d
}

// SetDispatcher routes widget events to fn.
func (d *Dashboard) SetDispatcher(fn func(coordinator.Intent)) {
	d.dispatch = fn
}

// bindWidgets turns selections and input into intents.
func (d *Dashboard) bindWidgets() {
	d.Menu.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		personas := []types.Persona{types.PersonaNational, types.PersonaState, types.PersonaOps}
		if i < len(personas) {
			d.dispatch(coordinator.Intent{Kind: coordinator.IntentSetPersona, Persona: personas[i]})
		}
	})

	d.Districts.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		// Item 0 is "All districts".
		if len(d.districtNames) == 0 {
			return
		}
		district := ""
		if i > 0 && i <= len(d.districtNames) {
			district = d.districtNames[i-1]
		}
		d.dispatch(coordinator.Intent{Kind: coordinator.IntentSelectDistrict, District: district})
	})

	d.MapTable.SetSelectedFunc(func(row, _ int) {
		if row < 1 || row > len(d.mapRecords) {
			return
		}
		rec := d.mapRecords[row-1]
		if rec.IsDistrict() {
			d.showDistrictCard(rec)
			return
		}
		d.dispatch(coordinator.Intent{Kind: coordinator.IntentDrillDown, Region: rec.State})
	})

	d.RankingsTable.SetSelectedFunc(func(row, _ int) {
		if row < 1 || row > len(d.rankingRecords) {
			return
		}
		rec := d.rankingRecords[row-1]
		switch {
		case rec.State == "":
			return
		case rec.IsDistrict():
			d.showDistrictCard(rec)
		default:
			d.dispatch(coordinator.Intent{Kind: coordinator.IntentDrillDown, Region: rec.State})
		}
	})

	d.SearchInput.SetChangedFunc(func(text string) {
		d.dispatch(coordinator.Intent{Kind: coordinator.IntentSearch, Query: text})
	})
	d.SearchInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && len(d.suggestionRecs) > 0 {
			d.selectSuggestion(0)
		}
	})
	d.Suggestions.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		d.selectSuggestion(i)
	})

	d.ChatInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		q := strings.TrimSpace(d.ChatInput.GetText())
		if q == "" {
			return
		}
		d.ChatInput.SetText("")
		fmt.Fprintf(d.ChatLog, "%s> %s%s\n", tagIris, tview.Escape(q), tagOff)
		d.dispatch(coordinator.Intent{Kind: coordinator.IntentChat, Query: q})
	})
}

func (d *Dashboard) selectSuggestion(i int) {
	if i < 0 || i >= len(d.suggestionRecs) {
		return
	}
	rec := d.suggestionRecs[i]
	d.hideOverlay(pageSearch)
	d.dispatch(coordinator.Intent{Kind: coordinator.IntentSelectSuggestion, Record: rec})
}

// withMount runs fn on the panel's widget from the draw loop. A missing
// mount is logged and skipped.
func (d *Dashboard) withMount(p types.PanelID, fn func(m mount)) {
	m, ok := d.mounts[p]
	if !ok || (m.table == nil && m.text == nil) {
		d.log.Debug("render_skipped", "panel", p, "err", ErrMountMissing)
		return
	}
	d.queue(func() { fn(m) })
}

// checkMount reports whether panel p has a widget on the dashboard.
func (d *Dashboard) checkMount(p types.PanelID) error {
	if _, ok := d.mounts[p]; !ok {
		return fmt.Errorf("%s: %w", p, ErrMountMissing)
	}
	return nil
}

func (d *Dashboard) RenderOverview(ov types.Overview) {
	d.withMount(types.PanelOverview, func(m mount) {
		m.text.SetText(OverviewText(ov))
	})
}

func (d *Dashboard) RenderMap(v coordinator.MapView) {
	d.withMount(types.PanelMap, func(m mount) {
		d.mapRecords = v.Records
		d.boundaries = v.Boundaries
		PopulateTable(m.table, MapTable(v), d.log)
	})
}

func (d *Dashboard) RenderRankings(v coordinator.RankingsView) {
	d.withMount(types.PanelRankings, func(m mount) {
		// One record per table row; label rows get an empty record.
		var recs []types.RegionRecord
		for _, group := range [][]types.RegionRecord{v.Rankings.TopPerformers, v.Rankings.BottomPerformers} {
			if len(group) == 0 {
				continue
			}
			recs = append(recs, types.RegionRecord{})
			recs = append(recs, group...)
		}
		d.rankingRecords = recs
		PopulateTable(m.table, RankingsTable(v), d.log)
	})
}

func (d *Dashboard) RenderTrends(v coordinator.TrendsView) {
	d.withMount(types.PanelTrends, func(m mount) {
		m.text.SetTitle(fmt.Sprintf(" Trends: %s ", metricLabel(v.Metric)))
		m.text.SetText(TrendsText(v))
		m.text.ScrollToBeginning()
	})
}

func (d *Dashboard) RenderAlerts(a types.Anomalies) {
	d.withMount(types.PanelAlerts, func(m mount) {
		m.text.SetText(AlertsText(a))
		m.text.ScrollToBeginning()
	})
}

func (d *Dashboard) RenderOperations(v coordinator.OperationsView) {
	d.withMount(types.PanelOperations, func(m mount) {
		PopulateTable(m.table, OperationsTable(v), d.log)
	})
}

func (d *Dashboard) RenderLoading(p types.PanelID) {
	d.withMount(p, func(m mount) {
		if m.table != nil {
			PopulateTable(m.table, TableData{Title: m.table.GetTitle(), Empty: "Loading..."}, d.log)
			return
		}
		m.text.SetText(tagMute + "Loading..." + tagOff)
	})
}

func (d *Dashboard) RenderFailure(p types.PanelID, err error) {
	msg := fmt.Sprintf("%sFailed to load %s:%s %s", tagLove, p, tagOff, tview.Escape(err.Error()))
	d.withMount(p, func(m mount) {
		if m.table != nil {
			PopulateTable(m.table, TableData{Title: m.table.GetTitle(), Empty: msg}, d.log)
			return
		}
		m.text.SetText(msg)
	})
}

func (d *Dashboard) SetBreadcrumb(text string) {
	d.queue(func() {
		d.breadcrumb = text
		d.refreshHeader()
	})
}

func (d *Dashboard) SetStatus(text string) {
	d.queue(func() {
		d.status = text
		d.refreshHeader()
	})
}

func (d *Dashboard) refreshHeader() {
	d.Header.SetText(fmt.Sprintf("[::b]AGHI Dashboard[::-]  %s%s%s   %s", tagGold, d.breadcrumb, tagOff, d.status))
}

func (d *Dashboard) SetDistricts(districts []string) {
	names := append([]string(nil), districts...)
	d.queue(func() {
		d.districtNames = names
		d.Districts.Clear()
		d.Districts.AddItem("All districts", "", 0, nil)
		for _, n := range names {
			d.Districts.AddItem(truncate(n, 22), "", 0, nil)
		}
	})
}

func (d *Dashboard) SetTrendMetric(m types.TrendMetric) {
	d.queue(func() {
		d.metric = m
		d.Trends.SetTitle(fmt.Sprintf(" Trends: %s ", metricLabel(m)))
	})
}

func (d *Dashboard) ShowSuggestions(r coordinator.SearchResult) {
	items, recs := SuggestionItems(r)
	d.queue(func() {
		d.suggestionRecs = recs
		d.Suggestions.Clear()
		for _, it := range items {
			d.Suggestions.AddItem(it, "", 0, nil)
		}
	})
}

func (d *Dashboard) HideSuggestions() {
	d.queue(func() {
		d.suggestionRecs = nil
		d.Suggestions.Clear()
	})
}

func (d *Dashboard) ShowDistrictCard(rec types.RegionRecord) {
	d.queue(func() { d.showDistrictCard(rec) })
}

func (d *Dashboard) showDistrictCard(rec types.RegionRecord) {
	d.Card.SetTitle(fmt.Sprintf(" %s ", rec.Name()))
	d.Card.SetText(DistrictCardText(rec, d.boundaries))
	d.Card.ScrollToBeginning()
	d.showOverlay(pageCard)
}

func (d *Dashboard) ShowStateCard(details types.StateDetails) {
	d.queue(func() {
		d.Card.SetTitle(fmt.Sprintf(" %s ", details.State))
		d.Card.SetText(StateCardText(details))
		d.Card.ScrollToBeginning()
		d.showOverlay(pageCard)
	})
}

func (d *Dashboard) ShowBriefing(b types.Briefing, diag *types.Diagnosis) {
	md := BriefingMarkdown(b, diag)
	d.queue(func() {
		d.briefingMD = md
		_, _, width, _ := d.Briefing.GetInnerRect()
		d.Briefing.SetText(RenderMarkdown(md, width-2))
		d.Briefing.ScrollToBeginning()
		d.showOverlay(pageBriefing)
	})
}

func (d *Dashboard) ShowBriefingHistory(entries []archive.Entry) {
	text := HistoryText(entries)
	d.queue(func() {
		d.History.SetText(text)
		d.History.ScrollToBeginning()
		d.showOverlay(pageHistory)
	})
}

func (d *Dashboard) ShowChatReply(query string, reply types.ChatReply) {
	d.queue(func() {
		_, _, width, _ := d.ChatLog.GetInnerRect()
		fmt.Fprint(d.ChatLog, RenderMarkdown(reply.Response, width-2))
		d.ChatLog.ScrollToEnd()
	})
}

// ApplyState follows coordinator state changes: the ops persona swaps the map
// for the operations monitor, and the national view empties the district
// selector.
func (d *Dashboard) ApplyState(s types.NavigationState) {
	d.queue(func() {
		d.persona = s.Persona
		if s.Persona == types.PersonaOps {
			d.MainSlot.SwitchToPage(slotOperations)
		} else {
			d.MainSlot.SwitchToPage(slotMap)
		}
		for i, item := range []types.Persona{types.PersonaNational, types.PersonaState, types.PersonaOps} {
			if item == s.Persona {
				d.Menu.SetCurrentItem(i)
			}
		}
		if s.SelectedRegion == types.National {
			d.districtNames = nil
			d.Districts.Clear()
			d.Districts.AddItem("(select a state)", "", 0, nil)
		}
	})
}

// OpenSearch shows the search overlay with an empty query.
func (d *Dashboard) OpenSearch() {
	d.SearchInput.SetText("")
	d.Suggestions.Clear()
	d.suggestionRecs = nil
	d.showOverlay(pageSearch)
}

// OpenChat shows the assistant overlay.
func (d *Dashboard) OpenChat() {
	d.showOverlay(pageChat)
}

// CloseOverlays hides every overlay. It reports whether any was open.
func (d *Dashboard) CloseOverlays() bool {
	closed := false
	for _, name := range overlayPages {
		if d.open[name] {
			d.hideOverlay(name)
			closed = true
		}
	}
	return closed
}

// OverlayOpen reports whether any overlay is showing.
func (d *Dashboard) OverlayOpen() bool {
	for _, name := range overlayPages {
		if d.open[name] {
			return true
		}
	}
	return false
}

func (d *Dashboard) showOverlay(name string) {
	d.open[name] = true
	d.Root.ShowPage(name)
}

func (d *Dashboard) hideOverlay(name string) {
	d.open[name] = false
	d.Root.HidePage(name)
}

// CopyBriefing puts the last briefing's markdown on the system clipboard.
func (d *Dashboard) CopyBriefing() error {
	if d.briefingMD == "" {
		return ErrNoBriefing
	}
	if err := clipboard.WriteAll(d.briefingMD); err != nil {
		return fmt.Errorf("copy briefing: %w", err)
	}
	return nil
}

// Persona is the persona last applied by ApplyState.
func (d *Dashboard) Persona() types.Persona {
	return d.persona
}
