package commands

import (
	"encoding/json"
	"time"

	"taleforge/internal/shared/events"
)

func newPurchaseEnvelope(
	eventID string,
	eventType string,
	attemptID string,
	occurredAt time.Time,
	data map[string]any,
) (events.Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceModule:   "economy-core/purchase-audit",
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     "purchase_attempt",
		EntityID:       attemptID,
		PayloadVersion: 1,
		Payload:        payload,
	}, nil
}
