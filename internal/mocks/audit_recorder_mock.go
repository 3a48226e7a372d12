package mocks

import (
	"context"
	"sync"

	"github.com/spec-kit/kitchen-service/internal/events"
)

// AuditRecorder captures entries in memory.
type AuditRecorder struct {
	mu      sync.Mutex
	entries []events.AuditEntry
}

func (r *AuditRecorder) Record(_ context.Context, entry events.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of what was recorded.
func (r *AuditRecorder) Entries() []events.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.AuditEntry{}, r.entries...)
}

// Actions lists the recorded actions in order.
func (r *AuditRecorder) Actions() []events.EventType {
	entries := r.Entries()
	actions := make([]events.EventType, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
