package commands

import (
	"encoding/json"
	"time"

	"taleforge/internal/shared/events"
)

func newSessionEnvelope(
	eventID string,
	eventType string,
	sessionID string,
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
		SourceModule:   "story-core/session-engine",
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     "session",
		EntityID:       sessionID,
		PayloadVersion: 1,
		Payload:        payload,
	}, nil
}
