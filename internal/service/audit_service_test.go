package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/events"
)

func TestAuditService_LogsAccountAndSessionEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()

	user := &domain.User{ID: "u-1", Role: domain.RoleAdmin}
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventAdminSeeded, user, events.AccountPayload{Email: "a@x.com"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserSignedOut, user, events.SessionPayload{
		TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour),
	})))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, string(events.EventAdminSeeded), entries[0].Message)
	assert.Equal(t, "a@x.com", entries[0].ContextMap()["email"])
	assert.Equal(t, "u-1", entries[0].ContextMap()["user_id"])

	assert.Equal(t, string(events.EventUserSignedOut), entries[1].Message)
	assert.Equal(t, "jti-1", entries[1].ContextMap()["token_id"])
}

func TestAuditService_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditService(nil, zap.NewNop()).RegisterHandlers()
	})
}
