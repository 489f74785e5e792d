package events

import (
	"context"
	"time"
)

type EventType string

const (
	EventSubmitted EventType = "volunteer.submitted"
	EventApproved  EventType = "volunteer.approved"
	EventRejected  EventType = "volunteer.rejected"
)

// Channel is the Redis pub/sub channel lifecycle events are published on.
const Channel = "volunteers:events"

type Event struct {
	Type        EventType `json:"type"`
	VolunteerID string    `json:"volunteer_id"`
	Role        string    `json:"volunteering_role,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	At          time.Time `json:"at"`
}

// Bus carries lifecycle events from the service layer to live listeners.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription delivers JSON-encoded events until closed.
type Subscription interface {
	Messages() <-chan []byte
	Close() error
}
