// Package interview drives the campaign audit conversation: one question per
// turn, answers validated and stored in the session, and a diagnostic report
// once the last answer is in.
package interview

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/soyeahso/adaudit/internal/diagnostic"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/hooks"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/session"
)

// ResetTokens restart the interview from the first question.
var ResetTokens = []string{"/start", "/auditar"}

// Turn is one inbound chat message.
type Turn struct {
	ChannelID string
	ChatID    string
	UserID    string
	Text      string
}

// Key returns the session key for the conversation the turn belongs to.
func (t Turn) Key() string {
	return domain.SessionKey{ChannelID: t.ChannelID, ChatID: t.ChatID}.String()
}

// Reply is what the machine wants sent back.
type Reply struct {
	Text   string
	Format domain.Format
	// Report is set on the turn that completed the interview.
	Report *diagnostic.Report
}

// Done reports whether this reply closed the interview.
func (r Reply) Done() bool { return r.Report != nil }

// Machine runs interview turns against a session store.
type Machine struct {
	store session.Store
	ttl   time.Duration
	allow map[string]struct{}
	hooks *hooks.Manager
	log   *logging.Logger
	now   func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithAllowList restricts the interview to the given user IDs.
// An empty list lets everyone in.
func WithAllowList(ids []string) Option {
	return func(m *Machine) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				m.allow[id] = struct{}{}
			}
		}
	}
}

// WithTTL sets how long a session survives between answers.
func WithTTL(ttl time.Duration) Option {
	return func(m *Machine) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithHooks sets the hook manager lifecycle events go to.
func WithHooks(hm *hooks.Manager) Option {
	return func(m *Machine) { m.hooks = hm }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// New creates a Machine.
func New(store session.Store, log *logging.Logger, opts ...Option) *Machine {
	m := &Machine{
		store: store,
		ttl:   session.DefaultTTL,
		allow: make(map[string]struct{}),
		log:   log.Sub("interview"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allowed reports whether userID may use the interview.
func (m *Machine) Allowed(userID string) bool {
	if len(m.allow) == 0 {
		return true
	}
	_, ok := m.allow[userID]
	return ok
}

// Handle processes one turn and returns the reply to send.
func (m *Machine) Handle(ctx context.Context, t Turn) (Reply, error) {
	key := t.Key()
	log := m.log.Conversation(key, t.UserID)
	base := hooks.Payload{Channel: t.ChannelID, Key: key, UserID: t.UserID}

	if !m.Allowed(t.UserID) {
		log.Info().Msg("access denied")
		m.emit(ctx, base, hooks.EventAccessDenied, nil)
		return markdown(MsgAccessRestricted), nil
	}

	text := strings.TrimSpace(t.Text)
	if isReset(text) {
		return m.restart(ctx, key, base)
	}

	sess, err := m.store.Get(ctx, key)
	if err != nil {
		return Reply{}, fmt.Errorf("loading session %s: %w", key, err)
	}
	if sess == nil || sess.Step == "" {
		return m.restart(ctx, key, base)
	}

	st, ok := states[sess.Step]
	if !ok {
		log.Warn().Str("step", string(sess.Step)).Msg("unknown step, restarting interview")
		return m.restart(ctx, key, base)
	}

	if !st.apply(sess, text) {
		log.Debug().Str("step", string(sess.Step)).Msg("answer rejected")
		m.emit(ctx, base, hooks.EventAnswerRejected, sess)
		return markdown(st.reprompt), nil
	}

	next := st.next(sess)
	if next == domain.StepReport {
		return m.finish(ctx, key, base, sess)
	}

	sess.Step = next
	if err := m.store.Set(ctx, key, sess, m.ttl); err != nil {
		return Reply{}, fmt.Errorf("saving session %s: %w", key, err)
	}
	log.Debug().Str("step", string(next)).Msg("step advanced")
	m.emit(ctx, base, hooks.EventStepAdvanced, sess)
	return markdown(states[next].promptFor(sess)), nil
}

func (m *Machine) restart(ctx context.Context, key string, base hooks.Payload) (Reply, error) {
	sess := domain.NewSession(m.now())
	if err := m.store.Set(ctx, key, sess, m.ttl); err != nil {
		return Reply{}, fmt.Errorf("starting session %s: %w", key, err)
	}
	m.emit(ctx, base, hooks.EventSessionStart, sess)
	return markdown(MsgWelcome), nil
}

// finish stores the last answer, builds the report and clears the session.
func (m *Machine) finish(ctx context.Context, key string, base hooks.Payload, sess *domain.Session) (Reply, error) {
	if err := m.store.Set(ctx, key, sess, m.ttl); err != nil {
		return Reply{}, fmt.Errorf("saving session %s: %w", key, err)
	}

	report, err := diagnostic.Diagnose(*sess)
	if err != nil {
		return Reply{}, fmt.Errorf("building report for %s: %w", key, err)
	}

	if err := m.store.Delete(ctx, key); err != nil {
		return Reply{}, fmt.Errorf("clearing session %s: %w", key, err)
	}

	p := base
	p.Action = string(report.Action)
	m.emit(ctx, p, hooks.EventReportGenerated, sess)

	m.log.Conversation(key, base.UserID).Info().
		Str("objective", string(sess.Objective)).
		Str("action", string(report.Action)).
		Dur("elapsed", m.now().Sub(sess.StartedAt)).
		Msg("report generated")

	reply := markdown(report.Render())
	reply.Report = &report
	return reply, nil
}

func (m *Machine) emit(ctx context.Context, p hooks.Payload, event string, sess *domain.Session) {
	p.Event = event
	if sess != nil {
		p.Step = string(sess.Step)
		p.Objective = string(sess.Objective)
	}
	m.hooks.Emit(ctx, p)
}

func isReset(text string) bool {
	return slices.Contains(ResetTokens, text)
}

func markdown(text string) Reply {
	return Reply{Text: text, Format: domain.FormatMarkdown}
}
