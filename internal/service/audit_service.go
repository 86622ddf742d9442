package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/events"
)

// AuditService writes account and session events to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventAdminSeeded, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventUserSignedIn, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventUserSignedOut, a.handleSessionEvent)
}

func (a *AuditService) handleAccountEvent(_ context.Context, event events.Event) error {
	fields := baseFields(event)
	if p, ok := event.Payload.(events.AccountPayload); ok {
		fields = append(fields, zap.String("email", p.Email))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func (a *AuditService) handleSessionEvent(_ context.Context, event events.Event) error {
	fields := baseFields(event)
	if p, ok := event.Payload.(events.SessionPayload); ok {
		if p.TokenID != "" {
			fields = append(fields, zap.String("token_id", p.TokenID))
		}
		fields = append(fields, zap.Time("token_expires_at", p.ExpiresAt))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func baseFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.String("role", string(event.Role)),
		zap.Time("at", event.Timestamp),
	}
}
