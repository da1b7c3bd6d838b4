// Package irc runs interviews over IRC private messages using girc.
package irc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/girc"
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/version"
)

// ChannelID is the channel identifier and session key prefix.
const ChannelID = "irc"

// maxLineBytes keeps a PRIVMSG well inside the 512 byte protocol limit.
const maxLineBytes = 400

// ircBold toggles bold in mIRC formatting.
const ircBold = "\x02"

var errNotConnected = errors.New("irc: not connected")

// Channel implements domain.Channel for IRC. Every user talks to the bot in
// a private query, so the sender's nick is both chat and user ID.
type Channel struct {
	cfg    config.IRCConfig
	client *girc.Client
	log    *logging.Logger

	mu      sync.RWMutex
	handler domain.MessageHandler
	running bool
	lastErr string
}

// New creates an IRC channel from configuration.
func New(cfg config.IRCConfig, log *logging.Logger) *Channel {
	return &Channel{
		cfg: cfg,
		log: log.Sub("irc"),
	}
}

func (c *Channel) ID() string { return ChannelID }

func (c *Channel) OnMessage(handler domain.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Status returns the current runtime status.
func (c *Channel) Status() domain.ChannelStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.ChannelStatus{
		ChannelID: ChannelID,
		Connected: c.client != nil && c.client.IsConnected(),
		Running:   c.running,
		LastError: c.lastErr,
	}
}

func (c *Channel) port() int {
	if c.cfg.Port != 0 {
		return c.cfg.Port
	}
	if c.cfg.UseTLS {
		return 6697
	}
	return 6667
}

func (c *Channel) clientConfig() girc.Config {
	gc := girc.Config{
		Server:  c.cfg.Server,
		Port:    c.port(),
		Nick:    c.cfg.Nick,
		User:    c.cfg.Nick,
		Name:    "adaudit campaign auditor",
		SSL:     c.cfg.UseTLS,
		Version: version.UserAgent(),

		// account-tag attaches the sender's services account to each
		// message; identity() prefers it over the nick.
		SupportedCaps: map[string][]string{"account-tag": nil},
	}
	if c.cfg.UseTLS {
		gc.TLSConfig = &tls.Config{ServerName: c.cfg.Server}
	}
	if c.cfg.SASL && c.cfg.Password != "" {
		gc.SASL = &girc.SASLPlain{User: c.cfg.Nick, Pass: c.cfg.Password}
	} else if c.cfg.Password != "" {
		gc.ServerPass = c.cfg.Password
	}
	return gc
}

// Start connects and blocks until the connection ends or ctx is done.
func (c *Channel) Start(ctx context.Context) error {
	client := girc.New(c.clientConfig())
	client.Handlers.Add(girc.CONNECTED, func(cl *girc.Client, _ girc.Event) {
		c.log.Info().Str("nick", cl.GetNick()).Msg("connected to IRC")
	})
	client.Handlers.Add(girc.PRIVMSG, func(cl *girc.Client, e girc.Event) {
		c.handlePrivmsg(cl.GetNick(), e)
	})
	client.Handlers.Add(girc.DISCONNECTED, func(*girc.Client, girc.Event) {
		c.log.Warn().Msg("disconnected from IRC")
		c.setRunning(false, "")
	})

	c.mu.Lock()
	c.client = client
	c.running = true
	c.lastErr = ""
	c.mu.Unlock()

	c.log.Info().
		Str("server", c.cfg.Server).
		Int("port", c.port()).
		Str("nick", c.cfg.Nick).
		Bool("tls", c.cfg.UseTLS).
		Msg("connecting to IRC")

	errCh := make(chan error, 1)
	go func() { errCh <- client.Connect() }()

	select {
	case err := <-errCh:
		if err != nil {
			c.setRunning(false, err.Error())
			return fmt.Errorf("irc connect: %w", err)
		}
		c.setRunning(false, "")
		return nil
	case <-ctx.Done():
		client.Close()
		c.setRunning(false, "")
		return ctx.Err()
	}
}

func (c *Channel) setRunning(running bool, lastErr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = running
	if lastErr != "" {
		c.lastErr = lastErr
	}
}

// Stop disconnects from the server.
func (c *Channel) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.client.IsConnected() {
		c.log.Info().Msg("disconnecting from IRC")
		c.client.Quit("adaudit shutting down")
	}
	c.running = false
	return nil
}

// Send delivers a reply to a nick, one PRIVMSG per line.
func (c *Channel) Send(_ context.Context, msg domain.OutboundMessage) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil || !client.IsConnected() {
		return errNotConnected
	}
	if msg.To == "" {
		return fmt.Errorf("irc: no target specified")
	}

	lines := splitMessage(render(msg), maxLineBytes)
	for _, line := range lines {
		client.Cmd.Message(msg.To, line)
	}

	c.log.Debug().
		Str("to", msg.To).
		Int("lines", len(lines)).
		Msg("sent IRC message")
	return nil
}

// handlePrivmsg turns a private message into an interview turn. Channel
// traffic, CTCP actions and our own echoes are ignored.
func (c *Channel) handlePrivmsg(self string, e girc.Event) {
	if e.Source == nil || strings.EqualFold(e.Source.Name, self) {
		return
	}
	if e.IsFromChannel() {
		c.log.Debug().
			Str("nick", e.Source.Name).
			Str("channel", e.Params[0]).
			Msg("ignoring channel message")
		return
	}
	if e.IsAction() {
		return
	}

	msg := domain.InboundMessage{
		ID:        uuid.New().String(),
		ChannelID: ChannelID,
		From:      identity(e),
		FromName:  e.Source.Name,
		ChatID:    e.Source.Name,
		ChatType:  domain.ChatTypeDM,
		Body:      e.Last(),
		Timestamp: time.Now(),
	}

	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()

	if handler == nil {
		return
	}
	if err := handler(context.Background(), msg); err != nil {
		c.log.Error().Err(err).Str("nick", msg.FromName).Msg("handling message failed")
	}
}

// identity is the sender as seen by the allow-list. Nicks can be taken by
// anyone, so the services account (account-tag) is used when the server
// sends one, then ident@host, and the bare nick only as a last resort.
func identity(e girc.Event) string {
	if acct, ok := e.Tags.Get("account"); ok && acct != "" && acct != "*" {
		return acct
	}
	if e.Source.Ident != "" && e.Source.Host != "" {
		return e.Source.Ident + "@" + e.Source.Host
	}
	return e.Source.Name
}

// render converts the interview's *bold* markup to IRC bold.
func render(msg domain.OutboundMessage) string {
	if msg.Format != domain.FormatMarkdown {
		return msg.Body
	}
	return strings.ReplaceAll(msg.Body, "*", ircBold)
}

// splitMessage breaks text into PRIVMSG-sized lines. IRC has no embedded
// newlines, and an empty PRIVMSG is rejected, so blank lines become a space.
// Long lines are cut on rune boundaries.
func splitMessage(text string, maxLen int) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			chunks = append(chunks, " ")
			continue
		}
		for len(line) > maxLen {
			cut := maxLen
			for cut > 0 && !utf8RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		chunks = append(chunks, line)
	}
	return chunks
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
