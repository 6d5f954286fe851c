package nlp

import "testing"

func TestAnalyzeSentimentPolarity(t *testing.T) {
	neg := AnalyzeSentiment("Incendio deja heridos y violencia en la comuna, crisis total")
	if neg.Label != "negative" || neg.Score >= 0 {
		t.Errorf("negative text got %+v", neg)
	}

	pos := AnalyzeSentiment("Acuerdo histórico trae inversión y crecimiento, un logro celebrado")
	if pos.Label != "positive" || pos.Score <= 0 {
		t.Errorf("positive text got %+v", pos)
	}

	neu := AnalyzeSentiment("El municipio publicó el calendario de actividades del mes")
	if neu.Label != "neutral" {
		t.Errorf("neutral text got %+v", neu)
	}
}

func TestAnalyzeSentimentShortText(t *testing.T) {
	s := AnalyzeSentiment("crisis")
	if s.Label != "neutral" || s.Score != 0 {
		t.Errorf("very short text must be neutral, got %+v", s)
	}
}

func TestAnalyzeSentimentBounded(t *testing.T) {
	s := AnalyzeSentiment("muerte desastre crisis violencia corrupción incendio heridos accidente amenaza conflicto")
	if s.Score < -1 || s.Score > 1 {
		t.Errorf("score %f outside [-1,1]", s.Score)
	}
}

func TestTopicScores(t *testing.T) {
	topics := TopicScores("Huelga y paro del sindicato tras los despidos en la planta")
	if len(topics) == 0 {
		t.Fatal("no topics returned")
	}
	if topics[0].Topic != "laboral" {
		t.Errorf("top topic = %s, want laboral (got %+v)", topics[0].Topic, topics)
	}
	if topics[0].Score <= 0 || topics[0].Score > 1 {
		t.Errorf("topic score %f outside (0,1]", topics[0].Score)
	}
}

func TestTopicScoresFallback(t *testing.T) {
	topics := TopicScores("Nada relevante que clasificar aquí")
	if len(topics) != 1 || topics[0].Topic != "otros" {
		t.Fatalf("unmatched text should get the otros fallback, got %+v", topics)
	}
	if topics[0].Score != 0.2 {
		t.Errorf("fallback score = %f, want 0.2", topics[0].Score)
	}
}

func TestTopicScoresOrderedAndCapped(t *testing.T) {
	text := "Contaminación del agua en el humedal: la superintendencia anuncia fiscalización y sanción tras la denuncia"
	topics := TopicScores(text)
	for i := 1; i < len(topics); i++ {
		if topics[i].Score > topics[i-1].Score {
			t.Errorf("topics not sorted by score: %+v", topics)
		}
	}
	for _, tp := range topics {
		if tp.Score > 1 {
			t.Errorf("topic %s score %f above cap", tp.Topic, tp.Score)
		}
	}
}

func TestLanguageIntensity(t *testing.T) {
	if got := LanguageIntensity("Un día tranquilo en la ciudad"); got != 0 {
		t.Errorf("calm text intensity = %f, want 0", got)
	}
	if got := LanguageIntensity("denuncia por el conflicto"); got != 0.8 {
		t.Errorf("two medium hits = %f, want 0.8", got)
	}
	if got := LanguageIntensity("bloqueo y paro"); got != 2.0 {
		t.Errorf("two high hits = %f, want 2.0", got)
	}
	if got := LanguageIntensity("bloqueo paro huelga violencia incendio"); got != 2.0 {
		t.Errorf("intensity must cap at 2.0, got %f", got)
	}
}
