package sewershed

import (
	"context"
	"log/slog"
	"sync"
)

// Remover removes a vector map.
type Remover interface {
	Remove(ctx context.Context, name string) error
}

// TempGuard owns temporary vectors for the duration of one run.
//
// Names are registered before the vector is created, so a failure half-way
// through a step still leads to removal. Release removes every registered
// name in reverse registration order and ignores removal errors.
type TempGuard struct {
	remover Remover

	mu       sync.Mutex
	names    []string
	released bool
}

// NewTempGuard creates a guard removing vectors through remover.
func NewTempGuard(remover Remover) *TempGuard {
	return &TempGuard{remover: remover}
}

// Register takes ownership of name and returns it.
func (g *TempGuard) Register(name string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.names = append(g.names, name)
	return name
}

// Names returns the registered names in registration order.
func (g *TempGuard) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.names...)
}

// Release removes all registered vectors. It runs at most once; later calls
// are no-ops. Cancellation of ctx does not stop the removals.
func (g *TempGuard) Release(ctx context.Context) {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return
	}
	g.released = true
	names := append([]string(nil), g.names...)
	g.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for i := len(names) - 1; i >= 0; i-- {
		if err := g.remover.Remove(ctx, names[i]); err != nil {
			slog.Debug("ignoring cleanup error", "name", names[i], "error", err)
		}
	}
}
