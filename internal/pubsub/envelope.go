package pubsub

import (
	"time"

	"github.com/google/uuid"
)

// Event type and version strings used as routing keys.
const (
	TypeMessageProcessed = "conversation.message.processed.v1"
	TypeDispatchFailed   = "conversation.dispatch.failed.v1"
	TypeDeliveryFailed   = "conversation.delivery.failed.v1"
)

type Meta struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Time          time.Time `json:"time"`
	Producer      string    `json:"producer,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope stamps the payload with a fresh event id and the current
// UTC time.
func NewEnvelope(eventType string, data any) Envelope {
	return Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Type:     eventType,
			Time:     time.Now().UTC(),
			Producer: "pytaibot",
		},
		Data: data,
	}
}

// MessageProcessed is the payload published after a dispatch finishes.
type MessageProcessed struct {
	ThreadID  string `json:"thread_id"`
	EventID   string `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
	Kind      string `json:"kind"`
}

// DispatchFailed is the payload published when a dispatch is dropped.
type DispatchFailed struct {
	ThreadID string `json:"thread_id"`
	EventID  string `json:"event_id"`
	Error    string `json:"error"`
}
