package nlp

import (
	"math"
	"strings"
	"unicode"
)

// Sentiment is a polarity estimate for a text.
type Sentiment struct {
	Score float64 // -1 (very negative) .. +1 (very positive)
	Label string  // positive|negative|neutral
}

// Small Spanish polarity lexicon tuned for news prose. Weights are in
// lexicon points, compressed to [-1,1] by a tanh over the average.
var positiveWords = map[string]float64{
	"acuerdo": 1.5, "avance": 1.2, "beneficio": 1.3, "celebra": 1.5,
	"crecimiento": 1.2, "éxito": 1.8, "exito": 1.8, "inauguración": 1.0,
	"inauguracion": 1.0, "inversión": 1.0, "inversion": 1.0, "logro": 1.5,
	"mejora": 1.3, "positivo": 1.4, "premio": 1.3, "recuperación": 1.2,
	"recuperacion": 1.2, "solución": 1.4, "solucion": 1.4,
}

var negativeWords = map[string]float64{
	"accidente": 1.6, "amenaza": 1.5, "bloqueo": 1.4, "conflicto": 1.5,
	"contaminación": 1.4, "contaminacion": 1.4, "corrupción": 1.8,
	"corrupcion": 1.8, "crisis": 1.7, "denuncia": 1.3, "derrame": 1.5,
	"desastre": 1.9, "despidos": 1.5, "enfrentamiento": 1.6, "fallece": 1.8,
	"heridos": 1.7, "huelga": 1.3, "incendio": 1.7, "muerte": 1.9,
	"paro": 1.2, "protesta": 1.2, "querella": 1.4, "rechazo": 1.2,
	"sanción": 1.3, "sancion": 1.3, "violencia": 1.8,
}

// AnalyzeSentiment estimates the polarity of a text. Very short texts are
// neutral by definition.
func AnalyzeSentiment(text string) Sentiment {
	if len(strings.TrimSpace(text)) < 10 {
		return Sentiment{Score: 0, Label: "neutral"}
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return Sentiment{Score: 0, Label: "neutral"}
	}

	var sum float64
	for _, w := range words {
		if v, ok := positiveWords[w]; ok {
			sum += v
		}
		if v, ok := negativeWords[w]; ok {
			sum -= v
		}
	}

	// Compress to [-1,1]; the divisor keeps single hits in long texts from
	// vanishing while keeping a pile of hits from pinning the scale.
	score := math.Tanh(sum / 4.0)

	label := "neutral"
	switch {
	case score >= 0.05:
		label = "positive"
	case score <= -0.05:
		label = "negative"
	}
	return Sentiment{Score: score, Label: label}
}
