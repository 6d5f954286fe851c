package risk

import (
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/nlp"
)

// DocumentDrivers is the transparent input breakdown for one document's
// contribution to a territory's aggregate score.
type DocumentDrivers struct {
	SourceWeight      float64 `json:"source_weight"`
	SourceCredibility float64 `json:"source_credibility"`
	TopicScore        float64 `json:"topic_score"`
	LanguageIntensity float64 `json:"language_intensity"`
	Recurrence        int     `json:"recurrence"`
	Official          bool    `json:"official"`
	SentimentScore    float64 `json:"sentiment_score"`
	SentimentPenalty  float64 `json:"sentiment_penalty"`
}

const maxDocumentScore = 10.0

// DocumentScore computes one document's risk contribution:
// credibility-weighted source, doubled topic relevance, language intensity,
// a recurrence boost for repeated mentions across distinct documents, an
// official-source bonus, minus a sentiment penalty (negative news raises
// risk, positive news lowers it). Capped at 10.
func DocumentScore(src model.Source, topTopicScore float64, text string, recurrence int, sentiment float64) (float64, DocumentDrivers) {
	lang := nlp.LanguageIntensity(text)

	recurrenceBoost := float64(recurrence) * 0.3
	if recurrenceBoost > 2.0 {
		recurrenceBoost = 2.0
	}

	officialBoost := 0.0
	if src.Official {
		officialBoost = 0.6
	}

	// sentiment is -1 (very negative) to +1 (very positive); negative
	// polarity adds risk, positive subtracts.
	sentimentPenalty := -sentiment * 0.5

	adjustedSource := src.Weight * src.Credibility

	score := adjustedSource + 2.0*topTopicScore + lang + recurrenceBoost + officialBoost + sentimentPenalty
	if score > maxDocumentScore {
		score = maxDocumentScore
	}
	if score < 0 {
		score = 0
	}

	return score, DocumentDrivers{
		SourceWeight:      src.Weight,
		SourceCredibility: src.Credibility,
		TopicScore:        topTopicScore,
		LanguageIntensity: lang,
		Recurrence:        recurrence,
		Official:          src.Official,
		SentimentScore:    sentiment,
		SentimentPenalty:  sentimentPenalty,
	}
}
