package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/repository"
)

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry events.AuditEntry)
}

// AuditService persists audited events to the activity log.
type AuditService struct {
	dispatcher events.Dispatcher
	logs       repository.ActivityLogRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logs repository.ActivityLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logs: logs, logger: logger}
}

// RegisterHandlers subscribes to every audited event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AuditedEvents() {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLog{
		UserID:    event.Actor.UserID,
		Action:    string(event.Type),
		IPAddress: event.Actor.IPAddress,
		UserAgent: event.Actor.UserAgent,
	}
	if payload, ok := event.Payload.(events.ChangePayload); ok {
		if payload.ResourceType != "" {
			table := payload.ResourceType
			entry.TableName = &table
		}
		entry.RecordID = payload.ResourceID
		entry.OldValues = payload.Before
		entry.NewValues = payload.After
	}

	if err := a.logs.Create(ctx, entry); err != nil {
		a.logger.Error("activity log write failed",
			zap.String("event_id", event.ID),
			zap.String("action", entry.Action),
			zap.Error(err))
		return err
	}
	a.logger.Debug("activity recorded", zap.String("action", entry.Action), zap.Int64("user_id", entry.UserID))
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, events.AuditEntry) {}

func recorderOrNoop(r AuditRecorder) AuditRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
