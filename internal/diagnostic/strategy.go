package diagnostic

import (
	"fmt"

	"github.com/soyeahso/adaudit/internal/domain"
)

// Strategy builds the report for one campaign objective. Build must not
// modify the session.
type Strategy interface {
	Objective() domain.Objective
	Build(s domain.Session) Report
}

var strategies = map[domain.Objective]Strategy{
	domain.ObjectiveWarmup: WarmupStrategy{},
	domain.ObjectiveSales:  SalesStrategy{},
}

// For returns the strategy registered for objective.
func For(objective domain.Objective) (Strategy, error) {
	st, ok := strategies[objective]
	if !ok {
		return nil, fmt.Errorf("diagnostic: no strategy for objective %q", objective)
	}
	return st, nil
}

// Diagnose picks the strategy for the session's objective and builds its report.
func Diagnose(s domain.Session) (Report, error) {
	st, err := For(s.Objective)
	if err != nil {
		return Report{}, err
	}
	return st.Build(s), nil
}
