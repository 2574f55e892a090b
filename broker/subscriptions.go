package broker

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/JiscSD/openenum/broker/message"
)

// Handler is a callback function supplied by subscribers.
type Handler func(e *message.Event) error

// ErrUnassignedHandler is returned for events nobody subscribed to.
var ErrUnassignedHandler = errors.New("unknown event handler")

// subscriptions associates handlers to event types.
type subscriptions struct {
	s map[message.EventType]Handler
	sync.RWMutex
}

// Subscribe a handler to a specific event type.
func (s *subscriptions) Subscribe(t message.EventType, h Handler) {
	s.Lock()
	defer s.Unlock()
	if s.s == nil {
		s.s = map[message.EventType]Handler{}
	}
	s.s[t] = h
}

// handleEvent runs the handler registered for the type of the event.
func (s *subscriptions) handleEvent(e *message.Event) error {
	s.RLock()
	h, ok := s.s[e.Type]
	s.RUnlock()
	if !ok {
		return errors.Wrapf(ErrUnassignedHandler, "type %s", e.Type)
	}
	return h(e)
}
