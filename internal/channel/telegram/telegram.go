// Package telegram connects the interview to a Telegram bot. Updates arrive
// through the gateway webhook; replies go out through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/version"
)

// ChannelID is the channel identifier and session key prefix.
const ChannelID = "telegram"

// DefaultAPIBase is the public Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// ErrUnauthorized is returned when a webhook call carries the wrong secret.
var ErrUnauthorized = errors.New("telegram: webhook secret mismatch")

// APIError is a failed Bot API call.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Channel implements domain.Channel for a Telegram bot in webhook mode.
type Channel struct {
	cfg  config.TelegramConfig
	base string
	http *http.Client
	log  *logging.Logger

	mu      sync.RWMutex
	handler domain.MessageHandler
	running bool
	botName string
	lastErr string
}

// Option configures a Channel.
type Option func(*Channel)

// WithHTTPClient replaces the HTTP client used for Bot API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Channel) { c.http = hc }
}

// New creates a Telegram channel.
func New(cfg config.TelegramConfig, log *logging.Logger, opts ...Option) *Channel {
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = config.DefaultWebhookSecret
	}
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = DefaultAPIBase
	}
	c := &Channel{
		cfg:  cfg,
		base: base,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log.Sub("telegram"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
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
		Connected: c.botName != "",
		Running:   c.running,
		LastError: c.lastErr,
	}
}

// Start checks the token with getMe and then waits for ctx. Updates are
// pushed to HandleUpdate by the gateway, so there is nothing to poll.
func (c *Channel) Start(ctx context.Context) error {
	me, err := c.GetMe(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.running = true
	c.botName = me.Username
	c.lastErr = ""
	c.mu.Unlock()
	c.log.Info().Str("bot", me.Username).Msg("telegram bot ready")

	<-ctx.Done()

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	return nil
}

// Stop marks the channel stopped. Webhook delivery is controlled by the
// gateway's lifetime.
func (c *Channel) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// Send delivers a reply with sendMessage. If Telegram cannot parse the
// Markdown (free-text answers may contain stray '_' or '*'), the message is
// retried as plain text.
func (c *Channel) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if msg.To == "" {
		return fmt.Errorf("telegram: no chat specified")
	}

	req := sendMessageRequest{ChatID: msg.To, Text: msg.Body}
	if msg.Format == domain.FormatMarkdown {
		req.ParseMode = "Markdown"
	}

	err := c.call(ctx, "sendMessage", req, nil)
	var apiErr *APIError
	if req.ParseMode != "" && errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Description, "can't parse entities") {
		c.log.Warn().Str("chat", msg.To).Msg("markdown rejected, resending as plain text")
		req.ParseMode = ""
		err = c.call(ctx, "sendMessage", req, nil)
	}
	if err != nil {
		return err
	}

	c.log.Debug().Str("chat", msg.To).Int("len", len(msg.Body)).Msg("sent telegram message")
	return nil
}

// GetMe returns the bot's own account.
func (c *Channel) GetMe(ctx context.Context) (User, error) {
	var me User
	err := c.call(ctx, "getMe", nil, &me)
	return me, err
}

// SetWebhook points the bot at hookURL. The configured webhook secret is
// registered as Telegram's secret_token.
func (c *Channel) SetWebhook(ctx context.Context, hookURL string) error {
	return c.call(ctx, "setWebhook", setWebhookRequest{URL: hookURL, SecretToken: c.cfg.WebhookSecret}, nil)
}

// CheckSecret reports whether a webhook call carries the configured secret.
// The sender's user ID comes from the body, so an unchecked call could
// impersonate an allow-listed user.
func (c *Channel) CheckSecret(got string) error {
	if subtle.ConstantTimeCompare([]byte(got), []byte(c.cfg.WebhookSecret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// HandleUpdate authenticates and processes one webhook body. Updates that
// are not text messages are acknowledged and dropped. The handler runs
// before HandleUpdate returns, so its error reaches the webhook caller.
func (c *Channel) HandleUpdate(ctx context.Context, secret string, body []byte) error {
	if err := c.CheckSecret(secret); err != nil {
		return err
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return fmt.Errorf("decoding update: %w", err)
	}

	msg, ok := inbound(upd)
	if !ok {
		c.log.Debug().Int64("update", upd.UpdateID).Msg("ignoring non-text update")
		return nil
	}

	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()
	if handler == nil {
		return fmt.Errorf("telegram: no message handler registered")
	}
	return handler(ctx, msg)
}

// inbound converts a text message update.
func inbound(upd Update) (domain.InboundMessage, bool) {
	m := upd.Message
	if m == nil || m.Text == "" || m.From == nil || m.From.IsBot {
		return domain.InboundMessage{}, false
	}

	chatType := domain.ChatTypeGroup
	if m.Chat.Type == "private" {
		chatType = domain.ChatTypeDM
	}
	name := m.From.Username
	if name == "" {
		name = m.From.FirstName
	}

	return domain.InboundMessage{
		ID:        strconv.FormatInt(upd.UpdateID, 10),
		ChannelID: ChannelID,
		From:      strconv.FormatInt(m.From.ID, 10),
		FromName:  name,
		ChatID:    strconv.FormatInt(m.Chat.ID, 10),
		ChatType:  chatType,
		Body:      m.Text,
		Timestamp: time.Unix(m.Date, 0),
	}, true
}

// call POSTs a JSON payload to a Bot API method and decodes the result.
func (c *Channel) call(ctx context.Context, method string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.base + "/bot" + c.cfg.Token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs and errors.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return &APIError{Method: method, Code: resp.StatusCode, Description: "undecodable response"}
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: env.Description}
	}
	if result != nil {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}
