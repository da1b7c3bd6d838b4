// Package diagnostic turns a finished interview into a campaign diagnosis.
package diagnostic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soyeahso/adaudit/internal/domain"
)

// ActionKind names the recommendation branch a report settled on.
type ActionKind string

const (
	ActionReshootOpening  ActionKind = "reshoot_opening"
	ActionScaleContent    ActionKind = "scale_content"
	ActionReplaceCreative ActionKind = "replace_creative"
	ActionFixLandingPage  ActionKind = "fix_landing_page"
	ActionRetarget        ActionKind = "retarget_bids"
	ActionScaleBudget     ActionKind = "scale_budget"
	ActionCollectData     ActionKind = "collect_data"
)

// Ratios are the computed metrics. Only the ones relevant to the
// objective are filled.
type Ratios struct {
	CPV       float64 `json:"cpv,omitempty"`
	Frequency float64 `json:"frequency,omitempty"`
	CTR       float64 `json:"ctr,omitempty"`
	CPC       float64 `json:"cpc,omitempty"`
	ConvLP    float64 `json:"convLp,omitempty"`
	CPA       float64 `json:"cpa,omitempty"`
	ROAS      float64 `json:"roas,omitempty"`
}

// Section is a titled bullet list.
type Section struct {
	Title string
	Items []string
}

// Report is a diagnosis ready to render. It is never stored.
type Report struct {
	Objective    domain.Objective
	Title        string
	Context      []string
	Metrics      []string
	Ratios       Ratios
	Action       ActionKind
	Actions      []string
	Sections     []Section
	Explanations []string
	Check        string
}

// Render formats the report as a single Markdown message.
func (r Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", r.Title)
	for _, line := range r.Context {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, line := range r.Metrics {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	writeSection(&b, Section{Title: "Agora", Items: r.Actions})
	for _, s := range r.Sections {
		writeSection(&b, s)
	}

	b.WriteString("\n*Feynman*\n")
	b.WriteString(strings.Join(r.Explanations, "\n\n"))
	if r.Check != "" {
		b.WriteString("\n\nChecagem: ")
		b.WriteString(r.Check)
	}
	return b.String()
}

func writeSection(b *strings.Builder, s Section) {
	fmt.Fprintf(b, "\n*%s*\n", s.Title)
	for _, item := range s.Items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func contextLines(s domain.Session) []string {
	return []string{
		fmt.Sprintf("Objetivo: %s | Plataforma: %s | Perfil: %s", s.Objective, s.Platform, s.Profile),
		"Público-alvo: " + s.Audience,
		"Micro-nicho: " + s.Microniche,
	}
}

// number prints v the way the operator typed it: no trailing zeros.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

func euros(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}
