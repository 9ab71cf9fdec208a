package world

import (
	"context"
	"time"
)

// Run drives the tick loop until ctx is cancelled or Stop is called. Frame
// requests from observers are answered between ticks on this goroutine, so
// they always see a consistent post-tick snapshot.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.frameReq:
			req.resp <- w.frame()
		case <-ticker.C:
			w.StepOnce()
		}
	}
}

// Stop terminates a Run loop. Safe to call once.
func (w *World) Stop() {
	close(w.stop)
}

// RequestFrame asks the running world for a snapshot of the current tick.
// Blocks until the loop answers or ctx is cancelled.
func (w *World) RequestFrame(ctx context.Context) (Frame, error) {
	req := frameReq{resp: make(chan Frame, 1)}
	select {
	case w.frameReq <- req:
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
	select {
	case f := <-req.resp:
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}
