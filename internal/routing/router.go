// Package routing connects messaging channels to the interview machine.
package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/soyeahso/adaudit/internal/channel"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/hooks"
	"github.com/soyeahso/adaudit/internal/interview"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/metrics"
)

// Interviewer runs one interview turn.
type Interviewer interface {
	Handle(ctx context.Context, t interview.Turn) (interview.Reply, error)
}

// Router routes inbound messages to the interview and its replies back to
// the originating channel.
type Router struct {
	channels *channel.Registry
	machine  Interviewer
	hooks    *hooks.Manager
	metrics  *metrics.Metrics
	log      *logging.Logger
}

// NewRouter creates a message router. hm and m may be nil.
func NewRouter(
	channels *channel.Registry,
	machine Interviewer,
	hm *hooks.Manager,
	m *metrics.Metrics,
	log *logging.Logger,
) *Router {
	return &Router{
		channels: channels,
		machine:  machine,
		hooks:    hm,
		metrics:  m,
		log:      log.Sub("routing"),
	}
}

// HandleInbound runs the interview turn for msg and sends the reply through
// the originating channel. Errors are logged and returned so a webhook can
// report failure.
func (r *Router) HandleInbound(ctx context.Context, msg domain.InboundMessage) error {
	start := time.Now()
	err := r.handle(ctx, msg)
	r.metrics.ObserveTurn(msg.ChannelID, err == nil, time.Since(start))
	if err != nil {
		r.log.Error().Err(err).
			Str("channel", msg.ChannelID).
			Str("from", msg.From).
			Str("chatId", msg.ChatID).
			Msg("handling message failed")
	}
	return err
}

func (r *Router) handle(ctx context.Context, msg domain.InboundMessage) error {
	r.log.Debug().
		Str("channel", msg.ChannelID).
		Str("from", msg.From).
		Str("chatId", msg.ChatID).
		Str("chatType", string(msg.ChatType)).
		Msg("routing inbound message")

	key := msg.Key().String()
	r.hooks.Emit(ctx, hooks.Payload{
		Event:   hooks.EventMessageReceived,
		Channel: msg.ChannelID,
		Key:     key,
		UserID:  msg.From,
	})

	ch, ok := r.channels.Get(msg.ChannelID)
	if !ok {
		return fmt.Errorf("channel not found: %s", msg.ChannelID)
	}

	reply, err := r.machine.Handle(ctx, interview.Turn{
		ChannelID: msg.ChannelID,
		ChatID:    msg.ChatID,
		UserID:    msg.From,
		Text:      msg.Body,
	})
	if err != nil {
		return fmt.Errorf("interview turn: %w", err)
	}

	out := domain.OutboundMessage{
		ChannelID: msg.ChannelID,
		To:        msg.ChatID,
		Body:      reply.Text,
		Format:    reply.Format,
		ReplyToID: msg.ID,
	}
	if err := ch.Send(ctx, out); err != nil {
		return fmt.Errorf("sending reply to %s: %w", out.To, err)
	}

	r.hooks.Emit(ctx, hooks.Payload{
		Event:   hooks.EventReplySent,
		Channel: msg.ChannelID,
		Key:     key,
		UserID:  msg.From,
	})
	r.log.Debug().
		Str("channel", msg.ChannelID).
		Str("to", out.To).
		Bool("report", reply.Done()).
		Msg("reply sent")
	return nil
}

// Wire registers HandleInbound as the message handler on every channel.
func (r *Router) Wire() {
	r.channels.Each(func(ch domain.Channel) {
		ch.OnMessage(r.HandleInbound)
		r.log.Debug().Str("channel", ch.ID()).Msg("wired message handler")
	})
}
