package app

import (
	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/types"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// KeyIntent maps a key press on the dashboard to an intent. Keys that are
// handled locally (quit, overlays, focus) report false.
func KeyIntent(event *tcell.EventKey) (coordinator.Intent, bool) {
	if event.Key() == tcell.KeyBackspace || event.Key() == tcell.KeyBackspace2 {
		return coordinator.Intent{Kind: coordinator.IntentDrillDown, Region: types.National}, true
	}
	if event.Key() != tcell.KeyRune {
		return coordinator.Intent{}, false
	}
	switch event.Rune() {
	case '1':
		return coordinator.Intent{Kind: coordinator.IntentSetPersona, Persona: types.PersonaNational}, true
	case '2':
		return coordinator.Intent{Kind: coordinator.IntentSetPersona, Persona: types.PersonaState}, true
	case '3':
		return coordinator.Intent{Kind: coordinator.IntentSetPersona, Persona: types.PersonaOps}, true
	case 'b':
		return coordinator.Intent{Kind: coordinator.IntentDrillDown, Region: types.National}, true
	case 'r':
		return coordinator.Intent{Kind: coordinator.IntentRefresh}, true
	case 'R':
		return coordinator.Intent{Kind: coordinator.IntentReprocess}, true
	case 'm':
		return coordinator.Intent{Kind: coordinator.IntentCycleTrendMetric}, true
	case 'p':
		return coordinator.Intent{Kind: coordinator.IntentBriefing}, true
	case 'h':
		return coordinator.Intent{Kind: coordinator.IntentBriefingHistory}, true
	case 'i':
		return coordinator.Intent{Kind: coordinator.IntentStateDetails}, true
	}
	return coordinator.Intent{}, false
}

// SetupKeyBindings configures keyboard input handling
func SetupKeyBindings(a *App) {
	d := a.Dashboard
	focusables := d.Focusables()

	a.TUI.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			if d.CloseOverlays() {
				return nil
			}
			return event
		}

		// Text inputs get every other key.
		if _, typing := a.TUI.GetFocus().(*tview.InputField); typing {
			return event
		}

		if d.OverlayOpen() {
			if event.Rune() == 'y' {
				a.copyBriefing()
				return nil
			}
			return event
		}

		switch event.Rune() {
		case 'q':
			a.TUI.Stop()
			return nil
		case '/':
			d.OpenSearch()
			return nil
		case 'c':
			d.OpenChat()
			return nil
		case 'y':
			a.copyBriefing()
			return nil
		case 'j':
			// Move down in menu
			if a.TUI.GetFocus() == d.Menu {
				if i := d.Menu.GetCurrentItem(); i < d.Menu.GetItemCount()-1 {
					d.Menu.SetCurrentItem(i + 1)
				}
				return nil
			}
		case 'k':
			// Move up in menu
			if a.TUI.GetFocus() == d.Menu {
				if i := d.Menu.GetCurrentItem(); i > 0 {
					d.Menu.SetCurrentItem(i - 1)
				}
				return nil
			}
		}

		if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyBacktab {
			a.cycleFocus(focusables, event.Key() == tcell.KeyBacktab)
			return nil
		}

		if in, ok := KeyIntent(event); ok {
			a.Dispatch(in)
			return nil
		}
		return event
	})
}

func (a *App) cycleFocus(order []tview.Primitive, backwards bool) {
	current := a.TUI.GetFocus()
	idx := 0
	for i, p := range order {
		if p == current {
			idx = i
			break
		}
	}
	step := 1
	if backwards {
		step = len(order) - 1
	}
	for n := 0; n < len(order); n++ {
		idx = (idx + step) % len(order)
		// The hidden half of the map/operations slot is skipped.
		if p := order[idx]; p == a.Dashboard.OpsTable && a.Dashboard.Persona() != types.PersonaOps ||
			p == a.Dashboard.MapTable && a.Dashboard.Persona() == types.PersonaOps {
			continue
		}
		a.TUI.SetFocus(order[idx])
		return
	}
}

func (a *App) copyBriefing() {
	if err := a.Dashboard.CopyBriefing(); err != nil {
		a.log.Warn("copy_briefing_failed", "err", err)
		a.Dashboard.SetStatus("[red]Copy failed:[-] " + err.Error())
		return
	}
	a.Dashboard.SetStatus("Briefing copied to clipboard")
}
