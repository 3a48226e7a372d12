package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/kitchen-service/internal/config"
	"github.com/spec-kit/kitchen-service/internal/events"
)

const defaultQueueSize = 256

// AuditSink buffers audit entries and publishes them off the request path.
// Record never blocks: when the queue is full the entry is dropped.
type AuditSink struct {
	enabled    bool
	queue      chan events.AuditEntry
	dispatcher events.Dispatcher
	logger     *zap.Logger
	dropped    atomic.Int64
}

// NewAuditSink builds the sink. Run must be started for entries to be delivered.
func NewAuditSink(cfg config.AuditConfig, dispatcher events.Dispatcher, logger *zap.Logger) *AuditSink {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &AuditSink{
		enabled:    cfg.Enabled,
		queue:      make(chan events.AuditEntry, size),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Record enqueues an entry. Origin metadata missing from the entry is taken from ctx.
func (s *AuditSink) Record(ctx context.Context, entry events.AuditEntry) {
	if s == nil || !s.enabled {
		return
	}
	if entry.IPAddress == "" && entry.UserAgent == "" {
		origin := events.OriginFrom(ctx)
		entry.IPAddress = origin.IPAddress
		entry.UserAgent = origin.UserAgent
	}

	select {
	case s.queue <- entry:
	default:
		s.dropped.Add(1)
		s.logger.Warn("audit queue full; entry dropped",
			zap.String("action", string(entry.Action)),
			zap.Int64("actor_id", entry.ActorID))
	}
}

// Dropped reports how many entries were discarded because the queue was full.
func (s *AuditSink) Dropped() int64 {
	return s.dropped.Load()
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (s *AuditSink) Run(ctx context.Context) {
	if s == nil || !s.enabled {
		return
	}
	publishCtx := context.WithoutCancel(ctx)
	for {
		select {
		case entry := <-s.queue:
			s.publish(publishCtx, entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.queue:
					s.publish(publishCtx, entry)
				default:
					return
				}
			}
		}
	}
}

func (s *AuditSink) publish(ctx context.Context, entry events.AuditEntry) {
	event := events.Event{
		ID:   uuid.NewString(),
		Type: entry.Action,
		Actor: events.Actor{
			UserID:    entry.ActorID,
			IPAddress: entry.IPAddress,
			UserAgent: entry.UserAgent,
		},
		Timestamp: time.Now().UTC(),
		Payload: events.ChangePayload{
			ResourceType: entry.ResourceType,
			ResourceID:   entry.ResourceID,
			Before:       entry.Before,
			After:        entry.After,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Error("audit publish failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}
