// Package gemini adapts the Gemini API to the AIRepository port. The engine
// treats every call here as best-effort: a failure simply drops the caller
// back onto the rule-based path.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/greenwayvn/advisor-bot/internal/domain/constants"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
)

type geminiClient struct {
	client     *genai.Client
	classifier *genai.GenerativeModel
	extractor  *genai.GenerativeModel
	polisher   *genai.GenerativeModel
}

// NewGeminiClient builds the three single-purpose models. Classification and
// extraction run cold for deterministic output; the polisher gets a little
// temperature so the prose does not come out wooden.
func NewGeminiClient(apiKey string) (repository.AIRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	classifier := client.GenerativeModel(constants.GeminiModelName)
	classifier.SetTemperature(constants.ClassifyTemperature)
	classifier.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classifyInstruction())},
	}

	extractor := client.GenerativeModel(constants.GeminiModelName)
	extractor.SetTemperature(constants.ClassifyTemperature)
	extractor.ResponseMIMEType = "application/json"
	extractor.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractInstruction)},
	}

	polisher := client.GenerativeModel(constants.GeminiModelName)
	polisher.SetTemperature(constants.PolishTemperature)
	polisher.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(polishInstruction)},
	}

	return &geminiClient{
		client:     client,
		classifier: classifier,
		extractor:  extractor,
		polisher:   polisher,
	}, nil
}

// ClassifyIntent labels the message with one intent from the closed set.
func (g *geminiClient) ClassifyIntent(ctx context.Context, text string) (entity.Intent, error) {
	raw, err := g.generate(ctx, g.classifier, text)
	if err != nil {
		return entity.IntentFallback, err
	}
	intent, ok := entity.ParseIntent(raw)
	if !ok {
		return entity.IntentFallback, fmt.Errorf("classifier returned unknown label %q", raw)
	}
	return intent, nil
}

// ExtractQuerySignals parses the extractor's JSON answer.
func (g *geminiClient) ExtractQuerySignals(ctx context.Context, text string) (*entity.QuerySignals, error) {
	raw, err := g.generate(ctx, g.extractor, text)
	if err != nil {
		return nil, err
	}
	raw = stripJSONFence(raw)

	var signals entity.QuerySignals
	if err := json.Unmarshal([]byte(raw), &signals); err != nil {
		return nil, fmt.Errorf("extractor returned invalid JSON: %w", err)
	}
	return &signals, nil
}

// PolishAnswer rewrites the outbound answer. On any failure the caller sends
// the templated answer unchanged.
func (g *geminiClient) PolishAnswer(ctx context.Context, answer string) (string, error) {
	polished, err := g.generate(ctx, g.polisher, answer)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(polished) == "" {
		return "", fmt.Errorf("polisher returned empty text")
	}
	return polished, nil
}

// generate runs one prompt with retries. Context cancellation wins over the
// retry loop.
func (g *geminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= constants.MaxRetries; attempt++ {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			text := extractText(resp)
			if strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text), nil
			}
			err = fmt.Errorf("empty response")
		}
		lastErr = err
		if attempt < constants.MaxRetries {
			log.Printf("gemini: attempt %d/%d failed: %v", attempt, constants.MaxRetries, err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(constants.RetryDelay * time.Second):
			}
		}
	}
	return "", fmt.Errorf("gemini call failed after %d attempts: %w", constants.MaxRetries, lastErr)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// stripJSONFence tolerates models that wrap JSON in a markdown code fence
// despite the MIME type hint.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
