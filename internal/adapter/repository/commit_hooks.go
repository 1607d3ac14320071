package repository

import (
	"context"
	"sync"
)

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// TrackCommit returns a context that collects AfterCommit callbacks, and
// the function that runs them. Transactor implementations call it when a
// unit of work opens and run the callbacks only once it has committed.
func TrackCommit(ctx context.Context) (context.Context, func(ctx context.Context)) {
	h := &commitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, h), h.run
}

// AfterCommit schedules fn for when the unit of work carried by ctx has
// committed. Outside a unit of work fn runs immediately. Callbacks of a
// unit that rolls back are discarded.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	h, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}

	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

// run calls the callbacks in registration order. ctx is detached from
// cancellation so a finished request cannot skip them.
func (h *commitHooks) run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, fn := range fns {
		fn(ctx)
	}
}
