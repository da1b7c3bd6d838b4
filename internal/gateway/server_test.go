package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/soyeahso/adaudit/internal/channel"
	"github.com/soyeahso/adaudit/internal/channel/telegram"
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpdates records webhook calls and returns a canned error.
type fakeUpdates struct {
	mu      sync.Mutex
	secrets []string
	bodies  []string
	err     error
}

func (f *fakeUpdates) HandleUpdate(_ context.Context, secret string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets = append(f.secrets, secret)
	f.bodies = append(f.bodies, string(body))
	return f.err
}

type stubChannel struct{ id string }

func (s *stubChannel) ID() string { return s.id }
func (s *stubChannel) Start(context.Context) error { return nil }
func (s *stubChannel) Stop(context.Context) error { return nil }
func (s *stubChannel) Send(context.Context, domain.OutboundMessage) error { return nil }
func (s *stubChannel) OnMessage(domain.MessageHandler) {}

func testConfig() config.GatewayConfig {
	cfg := config.Defaults().Gateway
	cfg.RateLimit.PerSecond = 0
	return cfg
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoot(t *testing.T) {
	s := New(testConfig(), testLogger())
	rr := do(t, s.Handler(), "GET", "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestHealth(t *testing.T) {
	reg := channel.NewRegistry(testLogger())
	require.NoError(t, reg.Register(&stubChannel{id: "telegram"}))
	s := New(testConfig(), testLogger(), WithChannels(reg))

	rr := do(t, s.Handler(), "GET", "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, "telegram", resp.Channels[0].ChannelID)
}

func TestNotFound(t *testing.T) {
	s := New(testConfig(), testLogger())
	rr := do(t, s.Handler(), "GET", "/nope", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"path":"/nope"`)
}

func TestWebhook_NotMountedWithoutTelegram(t *testing.T) {
	s := New(testConfig(), testLogger())
	rr := do(t, s.Handler(), "POST", WebhookPath, "{}")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWebhook_OK(t *testing.T) {
	updates := &fakeUpdates{}
	s := New(testConfig(), testLogger(), WithTelegram(updates))

	rr := do(t, s.Handler(), "POST", WebhookPath+"?secret=s3cret", `{"update_id":1}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.Equal(t, []string{"s3cret"}, updates.secrets)
	assert.Equal(t, []string{`{"update_id":1}`}, updates.bodies)
}

func TestWebhook_SecretFromHeader(t *testing.T) {
	updates := &fakeUpdates{}
	s := New(testConfig(), testLogger(), WithTelegram(updates))

	req := httptest.NewRequest("POST", WebhookPath, strings.NewReader("{}"))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "from-header")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"from-header"}, updates.secrets)
}

func TestWebhook_Unauthorized(t *testing.T) {
	updates := &fakeUpdates{err: fmt.Errorf("webhook: %w", telegram.ErrUnauthorized)}
	s := New(testConfig(), testLogger(), WithTelegram(updates))

	rr := do(t, s.Handler(), "POST", WebhookPath+"?secret=wrong", "{}")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unauthorized", rr.Body.String())
}

func TestWebhook_HandlerError(t *testing.T) {
	updates := &fakeUpdates{err: errors.New("store down")}
	s := New(testConfig(), testLogger(), WithTelegram(updates))

	rr := do(t, s.Handler(), "POST", WebhookPath, "{}")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "ERROR", rr.Body.String())
}

func TestWebhook_UnsetSecretRejectsUnsignedCall(t *testing.T) {
	tg := telegram.New(config.TelegramConfig{Token: "123:abc"}, testLogger())
	var handled bool
	tg.OnMessage(func(context.Context, domain.InboundMessage) error {
		handled = true
		return nil
	})
	s := New(testConfig(), testLogger(), WithTelegram(tg))

	forged := `{"update_id":5,"message":{"message_id":1,"from":{"id":100},"chat":{"id":100,"type":"private"},"date":0,"text":"/start"}}`
	rr := do(t, s.Handler(), "POST", WebhookPath, forged)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unauthorized", rr.Body.String())
	assert.False(t, handled)

	rr = do(t, s.Handler(), "POST", WebhookPath+"?secret="+config.DefaultWebhookSecret, forged)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, handled)
}

func TestWebhook_GetAnswersOK(t *testing.T) {
	s := New(testConfig(), testLogger(), WithTelegram(&fakeUpdates{}))
	rr := do(t, s.Handler(), "GET", WebhookPath, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestWebhook_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerSecond = 0.001
	cfg.RateLimit.Burst = 1
	s := New(cfg, testLogger(), WithTelegram(&fakeUpdates{}))
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, "POST", WebhookPath, "{}").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, "POST", WebhookPath, "{}").Code)
	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "adaudit_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New(testConfig(), testLogger(), WithMetrics(reg, "/metrics"))
	rr := do(t, s.Handler(), "GET", "/metrics", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "adaudit_test_total 1")
}

func TestServe_LifecycleHooks(t *testing.T) {
	hm := hooks.NewManager(testLogger())
	var mu sync.Mutex
	var events []string
	for _, ev := range []string{hooks.EventGatewayStart, hooks.EventGatewayStop} {
		hm.On(ev, "test", func(_ context.Context, p hooks.Payload) error {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, p.Event)
			return nil
		})
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(testConfig(), testLogger(), WithHooks(hm))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + s.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{hooks.EventGatewayStart, hooks.EventGatewayStop}, events)
}
