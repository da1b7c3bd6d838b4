package domain

import "time"

// ChatType classifies the conversation context.
type ChatType string

const (
	ChatTypeDM    ChatType = "dm"
	ChatTypeGroup ChatType = "group"
)

// InboundMessage is a text message received from a channel.
type InboundMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channelId"`
	From      string    `json:"from"` // originating identity, checked against the allow-list
	FromName  string    `json:"fromName,omitempty"`
	ChatID    string    `json:"chatId"`
	ChatType  ChatType  `json:"chatType"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the session key of the conversation the message belongs to.
func (m InboundMessage) Key() SessionKey {
	return SessionKey{ChannelID: m.ChannelID, ChatID: m.ChatID}
}

// Format tells a channel how to render an outbound body.
type Format string

const (
	FormatPlain    Format = ""
	FormatMarkdown Format = "markdown"
)

// OutboundMessage is a reply to be delivered through a channel.
type OutboundMessage struct {
	ChannelID string `json:"channelId"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Format    Format `json:"format,omitempty"`
	ReplyToID string `json:"replyToId,omitempty"`
}
