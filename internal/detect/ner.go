package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vigia-io/vigia/internal/model"
)

// NERProvider calls an external statistical NER service. The service speaks
// a small JSON contract: POST {"text": ...} and get back entities with
// labels; only LOC and GPE entities become candidates.
type NERProvider struct {
	baseURL       string
	httpClient    *http.Client
	maxChars      int
	contextWindow int
}

// NewNERProvider builds the NER client from detector config.
func NewNERProvider(cfg model.DetectorConfig) *NERProvider {
	window := cfg.ContextWindow
	if window <= 0 {
		window = 50
	}
	return &NERProvider{
		baseURL:       strings.TrimRight(cfg.NERURL, "/"),
		httpClient:    &http.Client{},
		maxChars:      10000,
		contextWindow: window,
	}
}

// Name returns the provider name.
func (p *NERProvider) Name() string { return MethodNER }

// Available probes the service health endpoint.
func (p *NERProvider) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerEntity struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

type nerResponse struct {
	Entities []nerEntity `json:"entities"`
}

// Extract sends the document text to the NER service.
func (p *NERProvider) Extract(ctx context.Context, title, body string) ([]Candidate, error) {
	full := FullText(title, body)
	text := full
	if len(text) > p.maxChars {
		text = text[:p.maxChars]
	}

	payload, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ner: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/entities", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner: unexpected status %d", resp.StatusCode)
	}

	var parsed nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ner: decode response: %w", err)
	}

	lowerTitle := strings.ToLower(title)

	var out []Candidate
	for _, ent := range parsed.Entities {
		if ent.Label != "LOC" && ent.Label != "GPE" {
			continue
		}
		start := ent.Start
		if start < 0 || start > len(full) {
			start = 0
		}
		end := ent.End
		if end < start || end > len(full) {
			end = start + len(ent.Text)
		}
		out = append(out, Candidate{
			Toponym:    ent.Text,
			Start:      start,
			End:        end,
			Context:    extractContext(full, start, p.contextWindow),
			InTitle:    strings.Contains(lowerTitle, strings.ToLower(ent.Text)),
			Method:     MethodNER,
			Confidence: MethodConfidence(MethodNER),
		})
	}
	return out, nil
}
