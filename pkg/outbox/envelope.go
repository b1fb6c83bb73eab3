package outbox

import (
	"encoding/json"
	"time"
)

// ActorRef identifies who produced the event. Storefront events carry the
// customer's session id; back-office events carry the admin id.
type ActorRef struct {
	SessionID string `json:"sessionId,omitempty"`
	AdminID   string `json:"adminId,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
