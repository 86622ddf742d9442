package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/docquery-auth/internal/domain"
)

func TestInMemoryDispatcher_PublishesToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventUserSignedIn, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventUserRegistered, user, nil)))
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventUserSignedOut, user, nil)))

	assert.Equal(t, []EventType{EventUserRegistered}, got)
}

func TestInMemoryDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventAdminSeeded, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventAdminSeeded, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventAdminSeeded, &domain.User{ID: "a"}, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventUserSignedIn, &domain.User{ID: "u1", Role: domain.RoleAdmin}, SessionPayload{TokenID: "t"})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, domain.RoleAdmin, e.Role)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, SessionPayload{TokenID: "t"}, e.Payload)
}
