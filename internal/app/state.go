// state.go - intent dispatch
package app

import (
	"time"

	"aghi-dashboard/internal/coordinator"
)

// Dispatch runs an intent against the coordinator. Navigation blocks until
// its reload settles, so everything except search runs off the draw loop.
// Search only reads the cache and queues draws, so it runs inline to keep
// keystrokes in order.
func (a *App) Dispatch(in coordinator.Intent) {
	if in.Kind == coordinator.IntentSearch {
		a.run(in)
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.run(in)
	}()
}

func (a *App) run(in coordinator.Intent) {
	start := time.Now()
	if err := a.Coordinator.Dispatch(a.ctx, in); err != nil {
		a.log.Warn("intent_failed", "intent", in.Kind, "err", err)
		return
	}
	a.log.Debug("intent_done", "intent", in.Kind, "elapsed_ms", time.Since(start).Milliseconds())
}
