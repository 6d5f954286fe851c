package detect

import (
	"context"
	"strings"
)

// Candidate is a raw place-name mention found in a document. Transient:
// candidates are never persisted, only the attributions derived from them.
type Candidate struct {
	Toponym    string  // the text span as found
	Start      int     // character offset in title+"\n\n"+body
	End        int
	Context    string  // ±window characters around the mention
	InTitle    bool
	Method     string  // provider name that produced it
	Confidence float64 // provider's intrinsic confidence baseline
}

// Provider extracts toponym candidates from a document. Implementations must
// return an error on provider-level failure (missing credential, network
// error, timeout) so the chain can fall through; an empty candidate list with
// a nil error is a valid final answer.
type Provider interface {
	// Name identifies the provider ("ai", "ner", "pattern").
	Name() string

	// Extract returns the toponym candidates found in title and body.
	Extract(ctx context.Context, title, body string) ([]Candidate, error)

	// Available reports whether the provider is configured and reachable.
	Available(ctx context.Context) bool
}

// MethodConfidence is the intrinsic confidence baseline per provider tier:
// AI extraction is the most reliable, pattern matching the least.
func MethodConfidence(method string) float64 {
	switch method {
	case MethodAI:
		return 0.9
	case MethodNER:
		return 0.75
	case MethodPattern:
		return 0.6
	default:
		return 0.5
	}
}

// MethodScore is the detection-method signal used by the scorer.
func MethodScore(method string) float64 {
	switch method {
	case MethodAI:
		return 0.95
	case MethodNER:
		return 0.75
	case MethodPattern:
		return 0.6
	default:
		return 0.5
	}
}

const (
	MethodAI      = "ai"
	MethodNER     = "ner"
	MethodPattern = "pattern"
)

// FullText joins title and body the way every provider and the scorer see a
// document, so offsets agree across the pipeline.
func FullText(title, body string) string {
	return title + "\n\n" + body
}

// extractContext returns ±window characters around position, with ellipses
// when truncated.
func extractContext(text string, position, window int) string {
	start := position - window
	if start < 0 {
		start = 0
	}
	end := position + window
	if end > len(text) {
		end = len(text)
	}
	ctx := text[start:end]
	if start > 0 {
		ctx = "..." + ctx
	}
	if end < len(text) {
		ctx += "..."
	}
	return strings.TrimSpace(ctx)
}
