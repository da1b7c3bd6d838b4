// Package benchmark holds the reference thresholds each ad platform is
// judged against and the niche profiles that scale them.
package benchmark

import "slices"

// Platform names accepted by the interview.
const (
	Meta          = "Meta"
	GoogleDisplay = "Google Display"
	YouTube       = "YouTube"
	Search        = "Search"
)

// Niche profile names accepted by the interview.
const (
	B2CMass        = "B2C massivo"
	B2BHighTicket  = "B2B high-ticket"
	LocalService   = "Local/serviço"
	NicheInfoOffer = "Infoproduto nichado"
)

// Platforms lists the platforms in menu order.
var Platforms = []string{Meta, GoogleDisplay, YouTube, Search}

// Profiles lists the niche profiles in menu order; index+1 is the shorthand.
var Profiles = []string{B2CMass, B2BHighTicket, LocalService, NicheInfoOffer}

// Thresholds are the targets a sales funnel is measured against.
type Thresholds struct {
	CTRMin    float64 `json:"ctrMin"`
	CPCMax    float64 `json:"cpcMax"`
	ConvLPMin float64 `json:"convLpMin"`
	CPATarget float64 `json:"cpaTarget"`
}

// Scale multiplies each threshold by the matching factor in m.
func (t Thresholds) Scale(m Thresholds) Thresholds {
	return Thresholds{
		CTRMin:    t.CTRMin * m.CTRMin,
		CPCMax:    t.CPCMax * m.CPCMax,
		ConvLPMin: t.ConvLPMin * m.ConvLPMin,
		CPATarget: t.CPATarget * m.CPATarget,
	}
}

var baselines = map[string]Thresholds{
	Meta:          {CTRMin: 0.01, CPCMax: 1.50, ConvLPMin: 0.20, CPATarget: 10.0},
	GoogleDisplay: {CTRMin: 0.007, CPCMax: 0.40, ConvLPMin: 0.10, CPATarget: 12.0},
	YouTube:       {CTRMin: 0.008, CPCMax: 0.30, ConvLPMin: 0.10, CPATarget: 12.0},
	Search:        {CTRMin: 0.03, CPCMax: 1.20, ConvLPMin: 0.20, CPATarget: 15.0},
}

var multipliers = map[string]Thresholds{
	B2CMass:        {CTRMin: 1.20, CPCMax: 0.80, ConvLPMin: 1.10, CPATarget: 0.90},
	B2BHighTicket:  {CTRMin: 0.70, CPCMax: 1.50, ConvLPMin: 0.90, CPATarget: 1.80},
	LocalService:   {CTRMin: 0.90, CPCMax: 1.20, ConvLPMin: 1.00, CPATarget: 1.20},
	NicheInfoOffer: {CTRMin: 1.00, CPCMax: 1.00, ConvLPMin: 1.10, CPATarget: 1.00},
}

// Baseline returns the unadjusted thresholds for platform. Unknown platforms
// get the Meta baseline.
func Baseline(platform string) Thresholds {
	if t, ok := baselines[platform]; ok {
		return t
	}
	return baselines[Meta]
}

// Multiplier returns the factors for a niche profile.
func Multiplier(profile string) (Thresholds, bool) {
	m, ok := multipliers[profile]
	return m, ok
}

// Adjusted returns the platform baseline scaled by the profile multiplier,
// or the plain baseline when the profile is unknown.
func Adjusted(platform, profile string) Thresholds {
	base := Baseline(platform)
	if m, ok := Multiplier(profile); ok {
		return base.Scale(m)
	}
	return base
}

// IsPlatform reports whether s is exactly one of Platforms.
func IsPlatform(s string) bool {
	return slices.Contains(Platforms, s)
}

// IsProfile reports whether s is exactly one of Profiles.
func IsProfile(s string) bool {
	return slices.Contains(Profiles, s)
}

// ResolveProfile maps a "1".."4" shorthand to its profile name and passes
// anything else through unchanged.
func ResolveProfile(s string) string {
	switch s {
	case "1", "2", "3", "4":
		return Profiles[s[0]-'1']
	}
	return s
}

// IsSearch reports whether the platform buys keyword traffic, where cost
// problems are fixed with search terms and negatives rather than audiences.
func IsSearch(platform string) bool {
	return platform == Search
}
