package domain

import "time"

// ActivityLog is an immutable audit record of a mutation or session event.
type ActivityLog struct {
	ID        int64
	UserID    int64
	Action    string
	TableName *string
	RecordID  *int64
	OldValues map[string]any
	NewValues map[string]any
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
