package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/vigia-io/vigia/internal/model"
)

// AIProvider extracts toponyms with an OpenAI-compatible chat model. The
// model is asked for a strict JSON list; positions are re-anchored against
// the actual text since model-reported offsets are unreliable.
type AIProvider struct {
	client        *openai.Client
	model         string
	maxBodyChars  int
	contextWindow int
	limiter       *rate.Limiter
}

// NewAIProvider builds the AI extraction provider from detector config.
func NewAIProvider(cfg model.DetectorConfig) *AIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}
	maxBody := cfg.MaxBodyChars
	if maxBody <= 0 {
		maxBody = 3000
	}
	window := cfg.ContextWindow
	if window <= 0 {
		window = 50
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &AIProvider{
		client:        openai.NewClientWithConfig(clientConfig),
		model:         mdl,
		maxBodyChars:  maxBody,
		contextWindow: window,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Name returns the provider name.
func (p *AIProvider) Name() string { return MethodAI }

// Available checks the endpoint with a lightweight model listing.
func (p *AIProvider) Available(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

type aiToponym struct {
	Toponym  string `json:"toponym"`
	Position int    `json:"position"`
}

type aiResponse struct {
	Toponyms []aiToponym `json:"toponyms"`
}

// jsonObject pulls the first {...} block out of a chat response, since
// models occasionally wrap the JSON in prose or fences.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Extract asks the model for every place name in the document.
func (p *AIProvider) Extract(ctx context.Context, title, body string) ([]Candidate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	truncated := body
	if len(truncated) > p.maxBodyChars {
		truncated = truncated[:p.maxBodyChars]
	}

	prompt := fmt.Sprintf(`Eres un sistema de NER especializado en detectar topónimos (lugares) en español chileno.

Analiza el siguiente texto y extrae TODOS los topónimos (nombres de lugares) que encuentres.
Incluye: regiones, comunas, ciudades, localidades, barrios, calles principales.

TÍTULO: %s

CONTENIDO: %s

Devuelve SOLO un JSON con este formato:
{"toponyms": [{"toponym": "nombre del lugar", "position": posición_aproximada}, ...]}

Responde SOLO con el JSON, sin explicaciones.`, title, truncated)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Eres un sistema NER experto en detectar lugares en español chileno. Respondes solo JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	raw := jsonObject.FindString(resp.Choices[0].Message.Content)
	if raw == "" {
		return nil, fmt.Errorf("openai: no JSON object in response")
	}
	var parsed aiResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("openai: parse response: %w", err)
	}

	full := FullText(title, body)
	lowerFull := strings.ToLower(full)
	lowerTitle := strings.ToLower(title)

	var out []Candidate
	for _, t := range parsed.Toponyms {
		if t.Toponym == "" {
			continue
		}
		position := strings.Index(lowerFull, strings.ToLower(t.Toponym))
		if position == -1 {
			position = t.Position
			if position < 0 || position > len(full) {
				position = 0
			}
		}
		out = append(out, Candidate{
			Toponym:    t.Toponym,
			Start:      position,
			End:        position + len(t.Toponym),
			Context:    extractContext(full, position, p.contextWindow),
			InTitle:    strings.Contains(lowerTitle, strings.ToLower(t.Toponym)),
			Method:     MethodAI,
			Confidence: MethodConfidence(MethodAI),
		})
	}
	return out, nil
}
