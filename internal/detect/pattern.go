package detect

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vigia-io/vigia/internal/gazetteer"
)

// PatternProvider is the last resort of the chain: it scans the document for
// every catalog name and alias, case-insensitively, on whole-word boundaries.
// No network, no credentials; it can never be unavailable.
type PatternProvider struct {
	gaz           *gazetteer.Holder
	contextWindow int
}

// NewPatternProvider builds the gazetteer scan provider.
func NewPatternProvider(gaz *gazetteer.Holder, contextWindow int) *PatternProvider {
	if contextWindow <= 0 {
		contextWindow = 50
	}
	return &PatternProvider{gaz: gaz, contextWindow: contextWindow}
}

// Name returns the provider name.
func (p *PatternProvider) Name() string { return MethodPattern }

// Available always reports true.
func (p *PatternProvider) Available(ctx context.Context) bool { return true }

// Extract scans the text against the current gazetteer version.
func (p *PatternProvider) Extract(ctx context.Context, title, body string) ([]Candidate, error) {
	idx := p.gaz.Current()
	full := FullText(title, body)
	lowerFull := strings.ToLower(full)
	lowerTitle := strings.ToLower(title)

	seen := make(map[string]bool) // dedupe by lowercase name + offset
	var out []Candidate

	for _, entry := range idx.Names() {
		needle := strings.ToLower(entry.Raw)
		if needle == "" {
			continue
		}
		for _, pos := range wordMatches(lowerFull, needle) {
			key := fmt.Sprintf("%s@%d", needle, pos)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Candidate{
				Toponym:    full[pos : pos+len(entry.Raw)],
				Start:      pos,
				End:        pos + len(entry.Raw),
				Context:    extractContext(full, pos, p.contextWindow),
				InTitle:    strings.Contains(lowerTitle, needle),
				Method:     MethodPattern,
				Confidence: MethodConfidence(MethodPattern),
			})
		}
	}
	return out, nil
}

// wordMatches returns the byte offsets where needle occurs in haystack on
// whole-word boundaries. Go's regexp \b is ASCII-only, which mangles accented
// Spanish names, so boundaries are checked rune-wise instead.
func wordMatches(haystack, needle string) []int {
	var positions []int
	offset := 0
	for {
		i := strings.Index(haystack[offset:], needle)
		if i == -1 {
			return positions
		}
		pos := offset + i
		if isWordBoundary(haystack, pos, len(needle)) {
			positions = append(positions, pos)
		}
		offset = pos + len(needle)
	}
}

func isWordBoundary(s string, pos, length int) bool {
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if pos+length < len(s) {
		r, _ := utf8.DecodeRuneInString(s[pos+length:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
