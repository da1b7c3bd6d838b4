package channel

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

// mockChannel is a test double for domain.Channel.
type mockChannel struct {
	id       string
	started  atomic.Bool
	stopped  atomic.Bool
	startErr error
	stopErr  error

	mu      sync.Mutex
	sent    []domain.OutboundMessage
	handler domain.MessageHandler
}

func (m *mockChannel) ID() string { return m.id }
func (m *mockChannel) Start(_ context.Context) error {
	m.started.Store(true)
	return m.startErr
}
func (m *mockChannel) Stop(_ context.Context) error {
	m.stopped.Store(true)
	return m.stopErr
}
func (m *mockChannel) Send(_ context.Context, msg domain.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}
func (m *mockChannel) OnMessage(handler domain.MessageHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// statusChannel reports its own status.
type statusChannel struct {
	mockChannel
}

func (s *statusChannel) Status() domain.ChannelStatus {
	return domain.ChannelStatus{ChannelID: s.id, Connected: true, Running: true}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry(testLogger())
	require.NoError(t, reg.Register(&mockChannel{id: "telegram"}))

	got, ok := reg.Get("telegram")
	require.True(t, ok)
	assert.Equal(t, "telegram", got.ID())

	_, ok = reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry(testLogger())
	require.NoError(t, reg.Register(&mockChannel{id: "irc"}))
	assert.Error(t, reg.Register(&mockChannel{id: "irc"}))
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry(testLogger())
	require.NoError(t, reg.Register(&mockChannel{id: "telegram"}))
	require.NoError(t, reg.Register(&mockChannel{id: "irc"}))

	assert.Equal(t, []string{"irc", "telegram"}, reg.List())

	var seen []string
	reg.Each(func(ch domain.Channel) { seen = append(seen, ch.ID()) })
	assert.Equal(t, []string{"irc", "telegram"}, seen)
}

func TestRegistry_Count(t *testing.T) {
	reg := NewRegistry(testLogger())
	assert.Equal(t, 0, reg.Count())

	require.NoError(t, reg.Register(&mockChannel{id: "irc"}))
	assert.Equal(t, 1, reg.Count())
}

func TestRegistry_Status(t *testing.T) {
	reg := NewRegistry(testLogger())
	require.NoError(t, reg.Register(&statusChannel{mockChannel{id: "telegram"}}))
	require.NoError(t, reg.Register(&mockChannel{id: "irc"}))

	statuses := reg.Status()
	require.Len(t, statuses, 2)
	assert.Equal(t, "irc", statuses[0].ChannelID)
	assert.True(t, statuses[0].Running)
	assert.False(t, statuses[0].Connected)
	assert.Equal(t, "telegram", statuses[1].ChannelID)
	assert.True(t, statuses[1].Connected)
}

func TestRegistry_StartAll(t *testing.T) {
	reg := NewRegistry(testLogger())
	ch1 := &mockChannel{id: "irc"}
	ch2 := &mockChannel{id: "telegram"}
	require.NoError(t, reg.Register(ch1))
	require.NoError(t, reg.Register(ch2))

	reg.StartAll(context.Background())
	assert.Eventually(t, ch1.started.Load, time.Second, 10*time.Millisecond)
	assert.Eventually(t, ch2.started.Load, time.Second, 10*time.Millisecond)
}

func TestRegistry_StartAll_ErrorRecorded(t *testing.T) {
	reg := NewRegistry(testLogger())
	require.NoError(t, reg.Register(&mockChannel{id: "broken", startErr: assert.AnError}))

	reg.StartAll(context.Background())
	assert.Eventually(t, func() bool {
		st := reg.Status()
		return len(st) == 1 && !st[0].Running && st[0].LastError == assert.AnError.Error()
	}, time.Second, 10*time.Millisecond)
}

func TestRegistry_StopAll(t *testing.T) {
	reg := NewRegistry(testLogger())
	ch1 := &mockChannel{id: "irc"}
	ch2 := &mockChannel{id: "telegram", stopErr: assert.AnError}
	require.NoError(t, reg.Register(ch1))
	require.NoError(t, reg.Register(ch2))

	reg.StopAll(context.Background())
	assert.True(t, ch1.stopped.Load())
	assert.True(t, ch2.stopped.Load())
}
