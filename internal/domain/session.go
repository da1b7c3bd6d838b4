package domain

import "time"

// SessionKey identifies one conversation: a chat on a channel.
type SessionKey struct {
	ChannelID string `json:"channelId"`
	ChatID    string `json:"chatId"`
}

// String returns the canonical "channel:chat" form used as the store key.
func (k SessionKey) String() string {
	return k.ChannelID + ":" + k.ChatID
}

// Objective is the campaign goal chosen at the start of an interview.
type Objective string

const (
	ObjectiveWarmup Objective = "Aquecimento"
	ObjectiveSales  Objective = "Vendas"
)

// Objectives lists the accepted objectives.
var Objectives = []Objective{ObjectiveWarmup, ObjectiveSales}

// Step tags the question a session is waiting on.
type Step string

const (
	StepObjective   Step = "objective"
	StepProfile     Step = "profile"
	StepAudience    Step = "audience"
	StepMicroniche  Step = "microniche"
	StepPlatform    Step = "platform"
	StepBudget      Step = "budget"
	StepReach       Step = "reach"
	StepImpressions Step = "impressions"
	StepViews       Step = "views"
	StepClicks      Step = "clicks"
	StepCost        Step = "cost"
	StepVisits      Step = "visits"
	StepLeads       Step = "leads"
	StepSales       Step = "sales"
	StepRevenue     Step = "revenue"
	StepRetention   Step = "retention"

	// StepReport is never stored; it marks that the last answer is in.
	StepReport Step = "report"
)

// Session is the interview state for one conversation.
// Numeric answers stay nil until their step has been answered.
type Session struct {
	Step       Step      `json:"step,omitempty"`
	Objective  Objective `json:"objective,omitempty"`
	Profile    string    `json:"profile,omitempty"`
	Audience   string    `json:"audience,omitempty"`
	Microniche string    `json:"microniche,omitempty"`
	Platform   string    `json:"platform,omitempty"`

	Budget      *float64 `json:"budget,omitempty"`
	Reach       *float64 `json:"reach,omitempty"`
	Impressions *float64 `json:"impressions,omitempty"`
	Views       *float64 `json:"views,omitempty"`
	Clicks      *float64 `json:"clicks,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Visits      *float64 `json:"visits,omitempty"`
	Leads       *float64 `json:"leads,omitempty"`
	Sales       *float64 `json:"sales,omitempty"`
	Revenue     *float64 `json:"revenue,omitempty"`
	Retention   *float64 `json:"retention,omitempty"`

	StartedAt time.Time `json:"startedAt,omitzero"`
}

// NewSession returns a session waiting on the first question.
func NewSession(now time.Time) *Session {
	return &Session{Step: StepObjective, StartedAt: now}
}

// Clone returns a deep copy, so stores never share answers with callers.
func (s *Session) Clone() *Session {
	c := *s
	for _, p := range []**float64{
		&c.Budget, &c.Reach, &c.Impressions, &c.Views, &c.Clicks, &c.Cost,
		&c.Visits, &c.Leads, &c.Sales, &c.Revenue, &c.Retention,
	} {
		if *p != nil {
			*p = Float(**p)
		}
	}
	return &c
}

// Value dereferences an optional answer; unanswered is 0.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Float returns a pointer to v, for filling numeric answers.
func Float(v float64) *float64 {
	return &v
}
