package diagnostic

import (
	"fmt"

	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/numeric"
)

// RetentionTarget is the average video retention (%) a warm-up creative needs.
const RetentionTarget = 30.0

// WarmupStrategy diagnoses awareness campaigns on reach, frequency, view
// cost and retention.
type WarmupStrategy struct{}

func (WarmupStrategy) Objective() domain.Objective { return domain.ObjectiveWarmup }

func (WarmupStrategy) Build(s domain.Session) Report {
	reach := domain.Value(s.Reach)
	impressions := domain.Value(s.Impressions)
	views := domain.Value(s.Views)
	cost := domain.Value(s.Cost)
	retention := domain.Value(s.Retention)

	ratios := Ratios{
		CPV:       numeric.SafeDiv(cost, views),
		Frequency: numeric.SafeDiv(impressions, reach),
	}

	r := Report{
		Objective: domain.ObjectiveWarmup,
		Title:     "Diagnóstico – Aquecimento",
		Context:   contextLines(s),
		Metrics: []string{
			fmt.Sprintf("Alcance: %s | Impressões: %s | Freq: %.2f", number(reach), number(impressions), ratios.Frequency),
			fmt.Sprintf("Views: %s | Custo total: %s | CPV: €%.4f", number(views), euros(cost), ratios.CPV),
			fmt.Sprintf("Retenção média: %s%% (meta: ≥ %s%%)", number(retention), number(RetentionTarget)),
		},
		Ratios: ratios,
		Sections: []Section{
			{
				Title: "Próximos testes",
				Items: []string{
					"1 criativo focado em UMA dor do micro-nicho.",
					"Lookalike/semelhante de quem assistiu ≥50%.",
					"Segmentação por termos do nicho.",
				},
			},
			{
				Title: "Crie estes públicos",
				Items: []string{
					"YouTube/Google: listas “Assistiram ≥25% / ≥50% / ≥75%” (30/90/180d) e semelhantes de ≥50%.",
					"Meta: públicos de vídeo (25/50/75%), engajamento do perfil e visitantes da LP; semelhantes de vídeo 50–75% e visitantes.",
				},
			},
		},
		Explanations: []string{explainRetention(retention, RetentionTarget)},
		Check:        "se dobrar o orçamento por 48h, o CPV e a retenção se mantêm?",
	}

	if retention < RetentionTarget {
		r.Action = ActionReshootOpening
		r.Actions = []string{"Regrave os 3–5s iniciais com promessa clara do micro-nicho; teste vídeo 15–20s e thumbnail com benefício direto."}
	} else {
		r.Action = ActionScaleContent
		r.Actions = []string{"Conteúdo aprovado → escale +20% a cada 2 dias se o CPV se mantiver; crie variações de título/thumbnail."}
	}
	return r
}
