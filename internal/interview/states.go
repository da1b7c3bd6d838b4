package interview

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soyeahso/adaudit/internal/benchmark"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/numeric"
)

// state is one row of the interview table.
type state struct {
	// prompt is sent when the interview enters this state.
	prompt      string
	// salesPrompt, if set, replaces prompt on the sales path.
	salesPrompt string
	// reprompt is sent when apply rejects the answer.
	reprompt    string
	// apply validates text and commits it into the session.
	apply       func(s *domain.Session, text string) bool
	// next picks the following step once apply has accepted.
	next        func(s *domain.Session) domain.Step
}

// promptFor returns the question to ask s on entering this state.
func (st state) promptFor(s *domain.Session) string {
	if st.salesPrompt != "" && s.Objective == domain.ObjectiveSales {
		return st.salesPrompt
	}
	return st.prompt
}

func goTo(step domain.Step) func(*domain.Session) domain.Step {
	return func(*domain.Session) domain.Step { return step }
}

// byObjective branches on the interview objective.
func byObjective(warmup, sales domain.Step) func(*domain.Session) domain.Step {
	return func(s *domain.Session) domain.Step {
		if s.Objective == domain.ObjectiveWarmup {
			return warmup
		}
		return sales
	}
}

// amount stores a free-form money or percentage answer.
func amount(field func(*domain.Session) **float64) func(*domain.Session, string) bool {
	return func(s *domain.Session, text string) bool {
		*field(s) = domain.Float(numeric.Parse(text))
		return true
	}
}

// count stores a whole-number answer.
func count(field func(*domain.Session) **float64) func(*domain.Session, string) bool {
	return func(s *domain.Session, text string) bool {
		*field(s) = domain.Float(numeric.Count(text))
		return true
	}
}

// states is the interview graph. Warm-up and sales share the opening
// questions and split after the budget.
var states = map[domain.Step]state{
	domain.StepObjective: {
		prompt:   MsgWelcome,
		reprompt: msgObjectiveRetry,
		apply: func(s *domain.Session, text string) bool {
			obj := domain.Objective(capitalize(text))
			if !slices.Contains(domain.Objectives, obj) {
				return false
			}
			s.Objective = obj
			return true
		},
		next: goTo(domain.StepProfile),
	},
	domain.StepProfile: {
		prompt:   msgProfiles,
		reprompt: msgProfileRetry,
		apply: func(s *domain.Session, text string) bool {
			profile := benchmark.ResolveProfile(text)
			if !benchmark.IsProfile(profile) {
				return false
			}
			s.Profile = profile
			return true
		},
		next: goTo(domain.StepAudience),
	},
	domain.StepAudience: {
		prompt: msgAudience,
		apply: func(s *domain.Session, text string) bool {
			s.Audience = text
			return true
		},
		next: goTo(domain.StepMicroniche),
	},
	domain.StepMicroniche: {
		prompt: msgMicroniche,
		apply: func(s *domain.Session, text string) bool {
			s.Microniche = text
			return true
		},
		next: goTo(domain.StepPlatform),
	},
	domain.StepPlatform: {
		prompt:   msgPlatform,
		reprompt: msgPlatform,
		apply: func(s *domain.Session, text string) bool {
			if !benchmark.IsPlatform(text) {
				return false
			}
			s.Platform = text
			return true
		},
		next: goTo(domain.StepBudget),
	},
	domain.StepBudget: {
		prompt: msgBudget,
		apply:  amount(func(s *domain.Session) **float64 { return &s.Budget }),
		next:   byObjective(domain.StepReach, domain.StepImpressions),
	},

	domain.StepReach: {
		prompt: msgReach,
		apply:  count(func(s *domain.Session) **float64 { return &s.Reach }),
		next:   goTo(domain.StepImpressions),
	},
	domain.StepImpressions: {
		prompt: msgImpressions,
		apply:  count(func(s *domain.Session) **float64 { return &s.Impressions }),
		next:   byObjective(domain.StepViews, domain.StepClicks),
	},
	domain.StepViews: {
		prompt: msgViews,
		apply:  count(func(s *domain.Session) **float64 { return &s.Views }),
		next:   goTo(domain.StepCost),
	},
	domain.StepCost: {
		prompt:      msgCost,
		salesPrompt: msgSalesCost,
		apply:       amount(func(s *domain.Session) **float64 { return &s.Cost }),
		next:        byObjective(domain.StepRetention, domain.StepVisits),
	},
	domain.StepRetention: {
		prompt: msgRetention,
		apply:  amount(func(s *domain.Session) **float64 { return &s.Retention }),
		next:   goTo(domain.StepReport),
	},

	domain.StepClicks: {
		prompt: msgClicks,
		apply:  count(func(s *domain.Session) **float64 { return &s.Clicks }),
		next:   goTo(domain.StepCost),
	},
	domain.StepVisits: {
		prompt: msgVisits,
		apply:  count(func(s *domain.Session) **float64 { return &s.Visits }),
		next:   goTo(domain.StepLeads),
	},
	domain.StepLeads: {
		prompt: msgLeads,
		apply:  count(func(s *domain.Session) **float64 { return &s.Leads }),
		next:   goTo(domain.StepSales),
	},
	domain.StepSales: {
		prompt: msgSales,
		apply:  count(func(s *domain.Session) **float64 { return &s.Sales }),
		next:   goTo(domain.StepRevenue),
	},
	domain.StepRevenue: {
		prompt: msgRevenue,
		apply:  amount(func(s *domain.Session) **float64 { return &s.Revenue }),
		next:   goTo(domain.StepReport),
	},
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
