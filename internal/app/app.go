package app

import (
	"context"
	"log/slog"
	"sync"

	"aghi-dashboard/internal/coordinator"
	"aghi-dashboard/internal/ui"

	"github.com/rivo/tview"
)

// Deps are the collaborators the dashboard is built from.
type Deps struct {
	Gateway  coordinator.Gateway
	Geometry coordinator.Geometry
	Options  coordinator.Options
	Logger   *slog.Logger
}

// App ties the terminal, the dashboard widgets and the coordinator together.
type App struct {
	TUI         *tview.Application
	Dashboard   *ui.Dashboard
	Coordinator *coordinator.Coordinator

	log    *slog.Logger
	queue  *ui.UpdateQueue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// CreateApp initializes the application and wires widget events to the
// coordinator. Nothing is fetched until Run.
func CreateApp(deps Deps) *App {
	ui.SetupRosePineTheme()

	a := &App{
		TUI: tview.NewApplication(),
		log: deps.Logger,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.queue = ui.NewUpdateQueue(func(f func()) { a.TUI.QueueUpdateDraw(f) })

	a.Dashboard = ui.NewDashboard(a.queue.Push, a.log)
	opts := deps.Options
	opts.Logger = a.log
	a.Coordinator = coordinator.New(deps.Gateway, deps.Geometry, a.Dashboard, opts)

	// The rendering layer follows state changes; widget events go back as intents.
	a.Coordinator.Subscribe(a.Dashboard.ApplyState)
	a.Dashboard.SetDispatcher(a.Dispatch)

	a.TUI.SetRoot(a.Dashboard.Root, true).SetFocus(a.Dashboard.Menu)
	SetupKeyBindings(a)
	return a
}

// Run starts the draw queue and the initial load, then blocks until the user
// quits.
func (a *App) Run() error {
	go a.queue.Run(a.ctx)
	a.Dispatch(coordinator.Intent{Kind: coordinator.IntentStartup})

	err := a.TUI.Run()
	a.cancel()
	a.wg.Wait()
	return err
}

// Stop ends the terminal session.
func (a *App) Stop() {
	a.TUI.Stop()
}
