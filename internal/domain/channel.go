package domain

import "context"

// ChannelStatus reports the runtime state of a channel.
type ChannelStatus struct {
	ChannelID string `json:"channelId"`
	Connected bool   `json:"connected"`
	Running   bool   `json:"running"`
	LastError string `json:"lastError,omitempty"`
}

// MessageHandler processes one inbound message. Channels that can report
// failure back to the sender (such as a webhook) surface the error.
type MessageHandler func(ctx context.Context, msg InboundMessage) error

// Channel is implemented by every chat transport.
type Channel interface {
	// ID returns the channel identifier (e.g. "telegram", "irc").
	ID() string

	// Start begins receiving messages. It may block until ctx is done.
	Start(ctx context.Context) error

	// Stop disconnects the channel.
	Stop(ctx context.Context) error

	// Send delivers an outbound message.
	Send(ctx context.Context, msg OutboundMessage) error

	// OnMessage registers the handler for inbound messages.
	OnMessage(handler MessageHandler)
}
