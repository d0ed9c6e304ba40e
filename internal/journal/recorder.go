package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/lightpath/internal/network"
)

// Recorder journals registry events as they are emitted.
//
// Listeners cannot return errors, so the first write failure is kept and
// reported by Err; later events are still attempted.
type Recorder struct {
	j   *Journal
	ctx context.Context
	err error
}

// NewRecorder returns a recorder writing through j. WriteContext must be
// called for every registry the recorder listens to before its first event.
func NewRecorder(ctx context.Context, j *Journal) *Recorder {
	return &Recorder{j: j, ctx: ctx}
}

// Listen implements network.Listener.
func (r *Recorder) Listen(ev network.Event) {
	if err := r.j.WriteEvent(r.ctx, ev); err != nil {
		slog.Error("journal write failed", "seq", ev.Seq, "kind", string(ev.Kind), "error", err)
		if r.err == nil {
			r.err = err
		}
	}
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error { return r.err }

// Attach writes reg's context row and subscribes the recorder to reg.
func (r *Recorder) Attach(reg *network.Registry, bench string) error {
	if err := r.j.WriteContext(r.ctx, reg.Context(), bench); err != nil {
		return err
	}
	reg.Subscribe(r.Listen)
	return nil
}
