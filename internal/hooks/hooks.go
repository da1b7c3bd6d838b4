// Package hooks dispatches interview lifecycle events to subscribers such
// as the metrics collector.
package hooks

import (
	"context"
	"sync"

	"github.com/soyeahso/adaudit/internal/logging"
)

// Event names.
const (
	EventMessageReceived = "message_received"
	EventAccessDenied    = "access_denied"
	EventSessionStart    = "session_start"
	EventAnswerRejected  = "answer_rejected"
	EventStepAdvanced    = "step_advanced"
	EventReportGenerated = "report_generated"
	EventReplySent       = "reply_sent"
	EventGatewayStart    = "gateway_start"
	EventGatewayStop     = "gateway_stop"
)

// AllEvents lists every event name.
var AllEvents = []string{
	EventMessageReceived,
	EventAccessDenied,
	EventSessionStart,
	EventAnswerRejected,
	EventStepAdvanced,
	EventReportGenerated,
	EventReplySent,
	EventGatewayStart,
	EventGatewayStop,
}

// Payload describes what happened. Fields that do not apply are empty.
type Payload struct {
	Event     string `json:"event"`
	Channel   string `json:"channel,omitempty"`
	Key       string `json:"key,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Step      string `json:"step,omitempty"`
	Objective string `json:"objective,omitempty"`
	Action    string `json:"action,omitempty"`
}

// Handler handles one event. Errors are logged and do not stop dispatch.
type Handler func(ctx context.Context, p Payload) error

// Manager holds handler registrations. A nil *Manager drops every event.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a named handler for event.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Off removes every handler called name from event.
func (m *Manager) Off(event, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handlers := m.handlers[event]
	filtered := make([]namedHandler, 0, len(handlers))
	for _, h := range handlers {
		if h.name != name {
			filtered = append(filtered, h)
		}
	}
	m.handlers[event] = filtered
}

// Emit calls the handlers for p.Event synchronously, in registration order.
func (m *Manager) Emit(ctx context.Context, p Payload) {
	if m == nil {
		return
	}

	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[p.Event]))
	copy(handlers, m.handlers[p.Event])
	m.mu.RUnlock()

	for _, h := range handlers {
		if err := h.handler(ctx, p); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", p.Event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// Count returns the number of handlers registered for event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}
