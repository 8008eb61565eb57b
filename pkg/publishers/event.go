package publishers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

// Event represents a change notification published downstream.
type Event struct {
	ID         string          `json:"id"`
	Resource   string          `json:"resource"`
	Action     string          `json:"action"`
	ResourceID string          `json:"resource_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event for an accepted mutation.
func NewEvent(change resource.Change) (Event, error) {
	evt := Event{
		ID:         uuid.NewString(),
		Resource:   change.Resource,
		Action:     string(change.Action),
		ResourceID: change.ID,
		OccurredAt: time.Now().UTC(),
	}
	if change.Payload != nil {
		raw, err := json.Marshal(change.Payload)
		if err != nil {
			return Event{}, fmt.Errorf("encode change payload: %w", err)
		}
		evt.Payload = raw
	}
	return evt, nil
}

// attributes are the message attributes attached by queue/topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"resource": e.Resource,
		"action":   e.Action,
	}
}
