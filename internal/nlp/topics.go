package nlp

import (
	"sort"
	"strings"

	"github.com/vigia-io/vigia/internal/model"
)

// topicRules maps each topic to the keywords that signal it. Keyword tables
// are policy data maintained alongside the catalog, seeded here with the
// Chilean territorial-risk taxonomy.
var topicRules = map[string][]string{
	"socioambiental":           {"impacto ambiental", "contaminación", "agua", "relave", "fauna", "flor", "humedal", "evaluación ambiental", "eia"},
	"regulatorio":              {"superintendencia", "fiscalización", "sanción", "resolución", "normativa", "permiso", "seremi", "municipalidad"},
	"laboral":                  {"huelga", "sindicato", "negociación colectiva", "paro", "despidos", "turnos"},
	"seguridad":                {"accidente", "incendio", "explosión", "heridos", "evacuación", "amenaza"},
	"reputacional":             {"denuncia", "críticas", "boicot", "corrupción", "transparencia", "querella"},
	"infraestructura":          {"corte de ruta", "bloqueo", "puente", "carretera", "puerto", "aeropuerto"},
	"politico-administrativo":  {"gobernación", "delegación", "concejo", "alcalde", "gobernador", "consulta ciudadana"},
}

// TopicScores classifies a text against the keyword rules. Every topic with
// at least one hit is returned, best first; a text matching nothing gets the
// catch-all "otros" with a low score so aggregation never divides by zero.
func TopicScores(text string) []model.TopicScore {
	t := strings.ToLower(text)
	var out []model.TopicScore

	for topic, keywords := range topicRules {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(t, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) / 3.0
		if score > 1 {
			score = 1
		}
		out = append(out, model.TopicScore{Topic: topic, Score: score, Method: "rules"})
	}

	if len(out) == 0 {
		return []model.TopicScore{{Topic: "otros", Score: 0.2, Method: "rules"}}
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Topic < out[b].Topic
	})
	return out
}
