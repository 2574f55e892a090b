package message

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/JiscSD/openenum/version"
)

// Event announces a change to an enum in the registry.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Enum      string    `json:"enum"`
	Source    string    `json:"source,omitempty"`
	Generator string    `json:"generator"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns a pointer to a new event with a new ID.
func New(t EventType, enum, source string) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      t,
		Enum:      enum,
		Source:    source,
		Generator: version.AppVersion(),
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks the fields every event must carry.
func (e *Event) Validate() error {
	if e.ID == uuid.Nil {
		return errors.New("event ID is empty")
	}
	if e.Enum == "" {
		return errors.Errorf("event %s does not name an enum", e.ID)
	}
	return nil
}

// notification is the envelope SNS wraps messages in when a queue subscribes
// to a topic without raw message delivery.
type notification struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// Decode reads an event from a queue message body, unwrapping SNS
// notifications.
func Decode(body []byte) (*Event, error) {
	n := notification{}
	if err := json.Unmarshal(body, &n); err == nil && n.Type == "Notification" && n.Message != "" {
		body = []byte(n.Message)
	}
	e := &Event{}
	if err := json.Unmarshal(body, e); err != nil {
		return nil, errors.Wrap(err, "error decoding event")
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
