package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/docquery-auth/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserSignedIn   EventType = "user_signed_in"
	EventUserSignedOut  EventType = "user_signed_out"
	EventAdminSeeded    EventType = "admin_seeded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, user *domain.User, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Role:      user.Role,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountPayload carries the account email for registration and seeding events.
type AccountPayload struct {
	Email string `json:"email"`
}

// SessionPayload identifies the token involved in a sign-in or sign-out.
type SessionPayload struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
