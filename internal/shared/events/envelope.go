package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape exchanged between Taleforge modules
// and relayed to observability consumers.
type Envelope struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	SourceModule   string          `json:"source_module"`
	OccurredAtUTC  time.Time       `json:"occurred_at_utc"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	PayloadVersion int             `json:"payload_version"`
	Payload        json.RawMessage `json:"payload"`
}

// Event types produced by the core. Presentation collaborators subscribe to
// these; the core never renders human-facing text.
const (
	TypeSessionStarted       = "session.started"
	TypeSessionTurnSubmitted = "session.turnSubmitted"
	TypeSessionCompleted     = "session.completed"
	TypePurchaseCompleted    = "purchase.completed"
	TypePurchaseDeclined     = "purchase.declined"
	TypeBalanceChanged       = "sparks.balance_changed"
)
