package score

import (
	"fmt"
	"strings"

	"github.com/vigia-io/vigia/internal/model"
)

// Explain builds the human-readable disambiguation explanation for an
// attribution. It is a pure function of the stored fields (toponym,
// provider, mapping method, breakdown), so a stored attribution can always
// reproduce its own explanation without any live provider call.
func Explain(toponym, provider string, method model.MappingMethod, bd model.ScoreBreakdown) string {
	parts := []string{
		fmt.Sprintf("detected %q via %s", toponym, provider),
	}

	switch method {
	case model.MappingExact:
		parts = append(parts, "exact name match")
	case model.MappingAlias:
		parts = append(parts, "alias match")
	case model.MappingFuzzy:
		parts = append(parts, "fuzzy match")
	case model.MappingAI:
		parts = append(parts, "selected among homonym candidates")
	}

	if bd.Position == 1.0 {
		parts = append(parts, "appears in title")
	} else {
		parts = append(parts, "appears in body")
	}

	if bd.SourceRegion == 1.0 {
		parts = append(parts, "source region matches")
	}

	return strings.Join(parts, "; ")
}
