package events

import (
	"context"
	"time"
)

// EventType enumerates supported event identifiers. Each audited action has
// its own type so subscribers can filter.
type EventType string

const (
	EventLogin          EventType = "login"
	EventLogout         EventType = "logout"
	EventUserCreated    EventType = "create_user"
	EventUserUpdated    EventType = "update_user"
	EventUserDeleted    EventType = "delete_user"
	EventRecipeCreated  EventType = "create_recipe"
	EventRecipeUpdated  EventType = "update_recipe"
	EventRecipeDeleted  EventType = "delete_recipe"
	EventScheduleCreate EventType = "create_schedule"
	EventScheduleUpdate EventType = "update_schedule"
	EventScheduleDelete EventType = "delete_schedule"
)

// AuditedEvents lists every event type that lands in the activity log.
func AuditedEvents() []EventType {
	return []EventType{
		EventLogin, EventLogout,
		EventUserCreated, EventUserUpdated, EventUserDeleted,
		EventRecipeCreated, EventRecipeUpdated, EventRecipeDeleted,
		EventScheduleCreate, EventScheduleUpdate, EventScheduleDelete,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID    int64  `json:"user_id"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AuditEntry is what services hand to the audit sink.
type AuditEntry struct {
	ActorID      int64
	Action       EventType
	ResourceType string
	ResourceID   *int64
	Before       map[string]any
	After        map[string]any
	IPAddress    string
	UserAgent    string
}

// ChangePayload is the payload of an audited event.
type ChangePayload struct {
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   *int64         `json:"resource_id,omitempty"`
	Before       map[string]any `json:"before,omitempty"`
	After        map[string]any `json:"after,omitempty"`
}

// Origin describes where a request came from.
type Origin struct {
	IPAddress string
	UserAgent string
}

type originKey struct{}

// WithOrigin attaches request origin metadata to ctx.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom extracts request origin metadata, zero when absent.
func OriginFrom(ctx context.Context) Origin {
	origin, _ := ctx.Value(originKey{}).(Origin)
	return origin
}
