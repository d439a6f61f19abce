package services

import (
	"context"
	"sync"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WorkspaceRegistry keeps the live workspaces in memory. Durable state outlives eviction:
// a swept workspace is rebuilt from storage the next time its id is seen.
type WorkspaceRegistry struct {
	deps WorkspaceDeps
	idle time.Duration

	mu    sync.Mutex
	items map[uuid.UUID]*Workspace
}

func NewWorkspaceRegistry(deps WorkspaceDeps, idle time.Duration) *WorkspaceRegistry {
	return &WorkspaceRegistry{deps: deps, idle: idle, items: make(map[uuid.UUID]*Workspace)}
}

// Open returns the workspace for id, creating it when id is unknown, nil, or bound to another
// host. created reports that a new id was issued and must be handed to the browser.
func (r *WorkspaceRegistry) Open(id uuid.UUID, host string) (ws *Workspace, created bool) {
	hostname := tenant.Hostname(host)
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id != uuid.Nil {
		if ws, ok := r.items[id]; ok {
			if ws.Hostname() == hostname {
				ws.Touch(now)
				return ws, false
			}
			if r.deps.Logger != nil {
				r.deps.Logger.WithFields(logrus.Fields{"workspace_id": id, "hostname": hostname, "bound_to": ws.Hostname()}).Warn("workspace presented on another host; issuing a new one")
			}
		} else {
			// Known to storage only, or never seen. Its session restores only on the host that
			// recorded it.
			ws := NewWorkspace(id, hostname, r.deps)
			r.items[id] = ws
			return ws, false
		}
	}

	ws = NewWorkspace(uuid.New(), hostname, r.deps)
	r.items[ws.ID] = ws
	return ws, true
}

// Get returns a live workspace without creating one.
func (r *WorkspaceRegistry) Get(id uuid.UUID) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[id]
	return ws, ok
}

func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep evicts workspaces idle since before now minus the idle timeout.
func (r *WorkspaceRegistry) Sweep(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, ws := range r.items {
		if ws.LastSeen().Before(cutoff) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *WorkspaceRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 && r.deps.Logger != nil {
				r.deps.Logger.WithFields(logrus.Fields{"evicted": n}).Debug("idle workspaces swept")
			}
		}
	}
}
