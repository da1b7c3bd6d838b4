package diagnostic

import (
	"fmt"

	"github.com/soyeahso/adaudit/internal/benchmark"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/numeric"
)

// SalesStrategy diagnoses conversion campaigns against the adjusted
// thresholds of the session's platform and niche profile.
type SalesStrategy struct{}

func (SalesStrategy) Objective() domain.Objective { return domain.ObjectiveSales }

func (SalesStrategy) Build(s domain.Session) Report {
	ref := benchmark.Adjusted(s.Platform, s.Profile)

	impressions := domain.Value(s.Impressions)
	clicks := domain.Value(s.Clicks)
	cost := domain.Value(s.Cost)
	visits := domain.Value(s.Visits)
	leads := domain.Value(s.Leads)
	sales := domain.Value(s.Sales)
	revenue := domain.Value(s.Revenue)

	// CPA is per sale when there are sales, otherwise per lead.
	results := sales
	if results == 0 {
		results = leads
	}

	ratios := Ratios{
		CTR:    numeric.SafeDiv(clicks, impressions),
		CPC:    numeric.SafeDiv(cost, clicks),
		ConvLP: numeric.SafeDiv(leads, visits),
		CPA:    numeric.SafeDiv(cost, results),
		ROAS:   numeric.SafeDiv(revenue, cost),
	}

	kind, actions := salesActions(ratios, ref, s.Platform)

	return Report{
		Objective: domain.ObjectiveSales,
		Title:     "Diagnóstico – Vendas",
		Context:   contextLines(s),
		Metrics: []string{
			fmt.Sprintf("CTR: %s | CPC: %s | Conv LP: %s", percent(ratios.CTR), euros(ratios.CPC), percent(ratios.ConvLP)),
			fmt.Sprintf("CPA: %s | ROAS: %.2f", euros(ratios.CPA), ratios.ROAS),
		},
		Ratios:  ratios,
		Action:  kind,
		Actions: actions,
		Sections: []Section{
			{
				Title: "Checklist",
				Items: []string{
					"Pixel/Tag ativos e conversões importadas (Lead/Purchase)",
					"Exclusões: compradores e leads nas prospecções",
					"LP rápida e com prova social do mesmo nicho",
				},
			},
		},
		Explanations: []string{
			explainCTR(ratios.CTR, ref.CTRMin),
			explainConvLP(visits, leads, ratios.ConvLP, ref.ConvLPMin),
			explainCPA(ratios.CPA, ref.CPATarget),
		},
		Check: "qual ponto do funil limita o resultado agora e por quê?",
	}
}

// salesActions walks the funnel top-down and stops at the first problem:
// click quality, then landing page, then cost. A CPA of exactly zero means
// nothing converted yet and never counts as on target.
func salesActions(r Ratios, ref benchmark.Thresholds, platform string) (ActionKind, []string) {
	switch {
	case r.CTR < ref.CTRMin:
		return ActionReplaceCreative, []string{
			"CTR baixo → troque criativo/gancho; 2 variações novas.",
			"Refine público (interesses do micro-nicho ou semelhantes).",
		}
	case r.ConvLP < ref.ConvLPMin:
		return ActionFixLandingPage, []string{
			"LP converte pouco → ajuste headline/CTA; adicione prova social; reduza campos.",
		}
	case r.CPA > 0 && r.CPA > ref.CPATarget:
		if benchmark.IsSearch(platform) {
			return ActionRetarget, []string{
				"CPA alto → ajuste lances; revise termos de pesquisa e adicione negativas.",
			}
		}
		return ActionRetarget, []string{
			"CPA alto → troque público/ajuste lances; teste novos interesses e lookalike.",
		}
	case r.CPA > 0:
		return ActionScaleBudget, []string{
			"CPA dentro do alvo → escale +20–30%; duplique conjunto campeão.",
		}
	default:
		return ActionCollectData, []string{
			"Dados insuficientes → colete 100 cliques ou 20 leads.",
		}
	}
}
