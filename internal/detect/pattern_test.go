package detect

import (
	"context"
	"strings"
	"testing"

	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
)

func patternGazetteer(t *testing.T) *gazetteer.Holder {
	t.Helper()
	idx, err := gazetteer.Build(1, []model.Territory{
		{ID: 1, Name: "Metropolitana", Level: model.LevelRegion, Aliases: []string{"RM"}, Enabled: true},
		{ID: 2, Name: "Osorno", Level: model.LevelComuna, Enabled: true},
		{ID: 3, Name: "Ñuñoa", Level: model.LevelComuna, Enabled: true},
		{ID: 4, Name: "Talca", Level: model.LevelComuna, Enabled: true},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return gazetteer.NewHolder(idx)
}

func TestPatternFindsCatalogNames(t *testing.T) {
	p := NewPatternProvider(patternGazetteer(t), 50)

	cands, err := p.Extract(context.Background(),
		"Alerta en Osorno",
		"Vecinos de Ñuñoa reportan cortes de luz.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cands))
	}

	byName := make(map[string]Candidate)
	for _, c := range cands {
		byName[strings.ToLower(c.Toponym)] = c
	}
	osorno, ok := byName["osorno"]
	if !ok || !osorno.InTitle {
		t.Errorf("osorno = %+v, want a title match", osorno)
	}
	nunoa, ok := byName["ñuñoa"]
	if !ok || nunoa.InTitle {
		t.Errorf("ñuñoa = %+v, want a body-only match", nunoa)
	}
	for _, c := range cands {
		if c.Method != MethodPattern || c.Confidence != 0.6 {
			t.Errorf("candidate metadata = %+v", c)
		}
	}
}

func TestPatternWholeWordBoundaries(t *testing.T) {
	p := NewPatternProvider(patternGazetteer(t), 50)

	// "Talcahuano" starts with the catalog name "Talca" but is a different
	// place; word boundaries must reject it.
	cands, err := p.Extract(context.Background(),
		"Incidente en Talcahuano", "La bahía permanece cerrada.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("candidates = %+v, substring inside a word must not match", cands)
	}

	cands, err = p.Extract(context.Background(), "Incidente en Talca", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 1 {
		t.Errorf("candidates = %+v, whole word must match", cands)
	}
}

func TestPatternMatchesAlias(t *testing.T) {
	p := NewPatternProvider(patternGazetteer(t), 50)

	cands, err := p.Extract(context.Background(), "Corte de agua en la RM", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 1 || cands[0].Toponym != "RM" {
		t.Fatalf("candidates = %+v, want the RM alias", cands)
	}
}

func TestPatternOffsetsPointAtMention(t *testing.T) {
	p := NewPatternProvider(patternGazetteer(t), 50)

	title := "Sin lugares"
	body := "El municipio de Osorno responde."
	cands, err := p.Extract(context.Background(), title, body)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	full := FullText(title, body)
	c := cands[0]
	if full[c.Start:c.End] != "Osorno" {
		t.Errorf("span = %q, want Osorno", full[c.Start:c.End])
	}
	if !strings.Contains(c.Context, "municipio de Osorno") {
		t.Errorf("context = %q", c.Context)
	}
}

func TestPatternRepeatedMentions(t *testing.T) {
	p := NewPatternProvider(patternGazetteer(t), 50)

	cands, err := p.Extract(context.Background(),
		"Osorno hoy", "En Osorno se reunieron autoridades. Osorno amaneció sin lluvia.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("candidates = %d, want one per mention", len(cands))
	}
	offsets := map[int]bool{}
	for _, c := range cands {
		if offsets[c.Start] {
			t.Errorf("duplicate offset %d", c.Start)
		}
		offsets[c.Start] = true
	}
}
