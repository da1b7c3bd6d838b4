package diagnostic

import "fmt"

// Plain-language explanations appended under "Feynman", each restating the
// measured value against its threshold.

func explainCTR(ctr, threshold float64) string {
	return fmt.Sprintf("Explicação: CTR é %% de quem clica ao ver. Analogia: vitrine que faz (ou não) entrar. Checagem: %s vs meta %s.",
		percent(ctr), percent(threshold))
}

func explainConvLP(visits, leads, conv, threshold float64) string {
	return fmt.Sprintf("Explicação: conversão da LP mostra se a página convence. Checagem: %s/%s = %s vs %s.",
		number(leads), number(visits), percent(conv), percent(threshold))
}

func explainCPA(cpa, target float64) string {
	return fmt.Sprintf("Explicação: CPA/CPL é quanto paga por resultado. Checagem: %s vs alvo %s.",
		euros(cpa), euros(target))
}

func explainRetention(retention, target float64) string {
	return fmt.Sprintf("Explicação: retenção é quanto do vídeo as pessoas assistem. Checagem: %s%% vs meta %s%%.",
		number(retention), number(target))
}
