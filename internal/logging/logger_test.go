package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	require.NotNil(t, log)

	log.Info().Msg("interview started")
	assert.Contains(t, buf.String(), "interview started")
}

func TestNewStyled(t *testing.T) {
	for _, style := range []string{"pretty", "compact", "json", ""} {
		assert.NotNil(t, NewStyled("info", style), "style %q", style)
	}
}

func TestSub_TagsSubsystem(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug").Sub("interview")

	log.Info().Msg("step advanced")
	assert.Contains(t, buf.String(), "step advanced")
	assert.Contains(t, buf.String(), `"subsystem":"interview"`)
}

func TestConversation_TagsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug").Conversation("chat-42", "user-7")

	log.Info().Msg("answer stored")
	out := buf.String()
	assert.Contains(t, out, `"chatId":"chat-42"`)
	assert.Contains(t, out, `"userId":"user-7"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Debug().Msg("debug msg")
	log.Info().Msg("info msg")
	assert.Empty(t, buf.String())

	log.Warn().Msg("warn msg")
	assert.Contains(t, buf.String(), "warn msg")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"silent", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "silent")

	log.Info().Msg("nope")
	log.Error().Msg("nope")
	assert.Empty(t, buf.String())
}
