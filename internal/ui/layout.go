package ui

import (
	"github.com/rivo/tview"
)

// Page names on the root pages.
const (
	pageDashboard  = "dashboard"
	pageSearch     = "search"
	pageCard       = "card"
	pageBriefing   = "briefing"
	pageHistory    = "history"
	pageChat       = "chat"
	slotMap        = "map"
	slotOperations = "operations"
)

var overlayPages = []string{pageSearch, pageCard, pageBriefing, pageHistory, pageChat}

// setupGrid configures the main grid layout
func setupGrid(d *Dashboard) *tview.Grid {
	grid := tview.NewGrid().
		SetRows(3, 5, 0, 0, 3).
		SetColumns(26, 0, 0).
		SetBorders(false)

	// Static items (header and footer span all columns)
	grid.AddItem(d.Header, 0, 0, 1, 3, 0, 0, false)
	grid.AddItem(d.Footer, 4, 0, 1, 3, 0, 0, false)

	// Left column: persona menu over the district selector
	grid.AddItem(d.Menu, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(d.Districts, 2, 0, 2, 1, 0, 0, false)

	grid.AddItem(d.Overview, 1, 1, 1, 2, 0, 0, false)
	grid.AddItem(d.MainSlot, 2, 1, 1, 1, 0, 0, false)
	grid.AddItem(d.RankingsTable, 2, 2, 1, 1, 0, 0, false)
	grid.AddItem(d.Trends, 3, 1, 1, 1, 0, 0, false)
	grid.AddItem(d.Alerts, 3, 2, 1, 1, 0, 0, false)

	return grid
}

// setupPages stacks the overlays over the dashboard grid. Overlays start
// hidden.
func setupPages(d *Dashboard) *tview.Pages {
	search := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.SearchInput, 1, 0, true).
		AddItem(d.Suggestions, 0, 1, false)
	search.SetBorder(true).SetTitle(" Search regions ")

	chat := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.ChatLog, 0, 1, false).
		AddItem(d.ChatInput, 1, 0, true)
	chat.SetBorder(true).SetTitle(" Assistant ")

	pages := tview.NewPages().
		AddPage(pageDashboard, d.Grid, true, true).
		AddPage(pageSearch, modal(search, 60, 18), true, false).
		AddPage(pageCard, modal(d.Card, 56, 22), true, false).
		AddPage(pageBriefing, modal(d.Briefing, 100, 36), true, false).
		AddPage(pageHistory, modal(d.History, 80, 30), true, false).
		AddPage(pageChat, modal(chat, 90, 30), true, false)
	return pages
}

// Focusables lists the panels Tab cycles through, in order.
func (d *Dashboard) Focusables() []tview.Primitive {
	return []tview.Primitive{d.Menu, d.Districts, d.MapTable, d.OpsTable, d.RankingsTable, d.Trends, d.Alerts}
}
