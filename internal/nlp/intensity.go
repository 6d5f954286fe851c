package nlp

import "strings"

// Intensity keyword tiers: a high-tier hit adds a full point, a medium-tier
// hit 0.4, capped at 2. Used by the risk aggregator as the language-match
// component of the per-document score.
var highIntensity = []string{
	"bloqueo", "paro", "huelga", "enfrentamiento", "violencia", "sanción",
	"querella", "incendio",
}

var mediumIntensity = []string{
	"denuncia", "rechazo", "conflicto", "tensión", "audiencia pública",
	"fiscalización", "acusación",
}

// LanguageIntensity scores how charged a text's vocabulary is, in [0,2].
func LanguageIntensity(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0
	for _, kw := range highIntensity {
		if strings.Contains(t, kw) {
			score += 1.0
		}
	}
	for _, kw := range mediumIntensity {
		if strings.Contains(t, kw) {
			score += 0.4
		}
	}
	if score > 2.0 {
		score = 2.0
	}
	return score
}
