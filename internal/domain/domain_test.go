package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeyString(t *testing.T) {
	assert.Equal(t, "telegram:12345", SessionKey{ChannelID: "telegram", ChatID: "12345"}.String())
	assert.Equal(t, ":", SessionKey{}.String())
}

func TestInboundMessageKey(t *testing.T) {
	msg := InboundMessage{ChannelID: "irc", ChatID: "alice", From: "alice"}
	assert.Equal(t, SessionKey{ChannelID: "irc", ChatID: "alice"}, msg.Key())
}

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession(now)
	assert.Equal(t, StepObjective, s.Step)
	assert.Equal(t, now, s.StartedAt)
	assert.Nil(t, s.Reach)
	assert.Nil(t, s.Revenue)
}

func TestValue(t *testing.T) {
	assert.Equal(t, 0.0, Value(nil))
	assert.Equal(t, 12.5, Value(Float(12.5)))
}

func TestSessionJSON_OmitsUnanswered(t *testing.T) {
	s := Session{Step: StepBudget, Objective: ObjectiveSales, Platform: "Search", Budget: Float(50)}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"budget":50`)
	assert.NotContains(t, out, "impressions")
	assert.NotContains(t, out, "startedAt")

	var back Session
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Budget)
	assert.Equal(t, 50.0, *back.Budget)
	assert.Nil(t, back.Impressions)
}

func TestSessionJSON_ZeroIsNotAbsent(t *testing.T) {
	s := Session{Step: StepRevenue, Sales: Float(0)}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sales":0`)
}

func TestSessionClone_IsDeep(t *testing.T) {
	s := &Session{Step: StepCost, Cost: Float(12), Views: Float(500)}
	c := s.Clone()

	*c.Cost = 99
	c.Step = StepRetention

	assert.Equal(t, 12.0, *s.Cost)
	assert.Equal(t, StepCost, s.Step)
	assert.Equal(t, 500.0, *c.Views)
	assert.Nil(t, c.Reach)
}
