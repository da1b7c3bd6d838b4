// Package metrics exposes Prometheus collectors for interview activity.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/soyeahso/adaudit/internal/hooks"
)

const namespace = "adaudit"

// Metrics holds the interview collectors. A nil *Metrics records nothing.
type Metrics struct {
	messages     *prometheus.CounterVec
	accessDenied *prometheus.CounterVec
	sessions     *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	reports      *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. Registration
// errors are returned so callers can pass a fresh registry in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interview",
			Name:      "messages_total",
			Help:      "Inbound messages handled, by channel.",
		}, []string{"channel"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interview",
			Name:      "access_denied_total",
			Help:      "Messages rejected by the allow-list, by channel.",
		}, []string{"channel"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interview",
			Name:      "sessions_started_total",
			Help:      "Interviews started or restarted, by channel.",
		}, []string{"channel"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interview",
			Name:      "answers_rejected_total",
			Help:      "Answers that failed validation, by step.",
		}, []string{"step"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diagnostic",
			Name:      "reports_total",
			Help:      "Diagnostics produced, by objective and recommended action.",
		}, []string{"objective", "action"}),
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "interview",
			Name:      "turn_duration_seconds",
			Help:      "Time to handle one inbound message and send the reply.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel", "status"}),
	}

	for _, c := range []prometheus.Collector{m.messages, m.accessDenied, m.sessions, m.rejected, m.reports, m.turnDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Subscribe wires the counters to interview hook events.
func (m *Metrics) Subscribe(hm *hooks.Manager) {
	count := func(vec *prometheus.CounterVec, label func(hooks.Payload) []string) hooks.Handler {
		return func(_ context.Context, p hooks.Payload) error {
			vec.WithLabelValues(label(p)...).Inc()
			return nil
		}
	}
	byChannel := func(p hooks.Payload) []string { return []string{p.Channel} }

	hm.On(hooks.EventMessageReceived, "metrics", count(m.messages, byChannel))
	hm.On(hooks.EventAccessDenied, "metrics", count(m.accessDenied, byChannel))
	hm.On(hooks.EventSessionStart, "metrics", count(m.sessions, byChannel))
	hm.On(hooks.EventAnswerRejected, "metrics", count(m.rejected, func(p hooks.Payload) []string {
		return []string{p.Step}
	}))
	hm.On(hooks.EventReportGenerated, "metrics", count(m.reports, func(p hooks.Payload) []string {
		return []string{p.Objective, p.Action}
	}))
}

// ObserveTurn records how long one message took end to end.
func (m *Metrics) ObserveTurn(channel string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.turnDuration.WithLabelValues(channel, status).Observe(d.Seconds())
}
