// Package channel keeps track of the chat transports interviews run over.
package channel

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/logging"
)

// Registry holds the configured channels by ID.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]domain.Channel
	exits    map[string]error
	log      *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		channels: make(map[string]domain.Channel),
		exits:    make(map[string]error),
		log:      log.Sub("channels"),
	}
}

// Register adds ch. Channel IDs double as session key prefixes, so a second
// channel with the same ID is refused.
func (r *Registry) Register(ch domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.channels[ch.ID()]; dup {
		return fmt.Errorf("channel %q already registered", ch.ID())
	}
	r.channels[ch.ID()] = ch
	r.log.Info().Str("channel", ch.ID()).Msg("channel registered")
	return nil
}

// Get returns the channel with the given ID.
func (r *Registry) Get(id string) (domain.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[id]
	return ch, ok
}

// List returns the registered IDs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.channels))
}

// Each calls fn for every channel in ID order.
func (r *Registry) Each(fn func(domain.Channel)) {
	for _, id := range r.List() {
		if ch, ok := r.Get(id); ok {
			fn(ch)
		}
	}
}

// Status reports every channel, sorted by ID. Channels that do not report
// their own status are shown as running until Start returns.
func (r *Registry) Status() []domain.ChannelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]domain.ChannelStatus, 0, len(r.channels))
	for _, id := range slices.Sorted(maps.Keys(r.channels)) {
		ch := r.channels[id]
		if sc, ok := ch.(interface{ Status() domain.ChannelStatus }); ok {
			statuses = append(statuses, sc.Status())
			continue
		}
		st := domain.ChannelStatus{ChannelID: id, Running: true}
		if err, exited := r.exits[id]; exited {
			st.Running = false
			if err != nil {
				st.LastError = err.Error()
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// StartAll starts every channel on its own goroutine, since Start may block
// for the life of the connection. Start errors are logged and recorded.
func (r *Registry) StartAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, ch := range r.channels {
		r.log.Info().Str("channel", id).Msg("starting channel")
		go func() {
			err := ch.Start(ctx)
			if err != nil {
				r.log.Error().Err(err).Str("channel", id).Msg("channel exited with error")
			}
			r.mu.Lock()
			r.exits[id] = err
			r.mu.Unlock()
		}()
	}
}

// StopAll stops every channel, logging failures.
func (r *Registry) StopAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, ch := range r.channels {
		r.log.Info().Str("channel", id).Msg("stopping channel")
		if err := ch.Stop(ctx); err != nil {
			r.log.Error().Err(err).Str("channel", id).Msg("failed to stop channel")
		}
	}
}

// Count returns the number of registered channels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
