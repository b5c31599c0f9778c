package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tlcintake/internal/config"
	"tlcintake/internal/extractor"
	"tlcintake/internal/port"
)

// Extractor implements port.DocumentExtractor using the Gemini API.
type Extractor struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewExtractor creates a Gemini-based document extractor from a provider config.
func NewExtractor(cfg *config.ExtractorProviderConfig) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-1.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:  cfg.APIKey,
		model:   model,
		timeout: timeout,
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	prompt := extractor.BuildIntakePrompt()

	model := client.GenerativeModel(e.model)
	temperature := float32(0)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt)},
	}

	var parts []genai.Part
	for _, f := range input.Files {
		parts = append(parts, genai.Text(extractor.HintLine(f.TypeHint, f.Filename)))
		parts = append(parts, genai.Blob{
			MIMEType: f.ContentType,
			Data:     f.Bytes,
		})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			return nil, extractor.NewRateLimitError("gemini", err, 0)
		}
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini: no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty response from gemini: no text parts")
	}

	return &port.ExtractOutput{
		RawDocuments: []byte(sb.String()),
		ModelUsed:    e.model,
		PromptUsed:   prompt,
	}, nil
}
