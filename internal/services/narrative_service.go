package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"google.golang.org/api/option"
)

const narrativePrompt = `You are a careful health assistant writing for a patient and their caregiver.
Below is a JSON summary of the patient's recent vital-sign readings: counts, per-metric averages with trend and status, fixed recommendations and recent alerts.

REQUIREMENTS:
- Write 3 to 5 short sentences in plain language
- Mention only metrics present in the summary
- Do not invent numbers that are not in the summary
- Do not diagnose; suggest contacting a doctor when a status is high or low
- No markdown, no lists

SUMMARY:
%s`

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiNarrator writes plain-language notes for insight summaries.
type GeminiNarrator struct {
	client *genai.Client
	model  contentGenerator
}

func NewGeminiNarrator(ctx context.Context, apiKey, modelName string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	return &GeminiNarrator{client: client, model: model}, nil
}

var _ Narrator = (*GeminiNarrator)(nil)

func (n *GeminiNarrator) Narrate(ctx context.Context, summary *domain.InsightSummary) (string, error) {
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(narrativePrompt, payload)))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}

	text := responseText(resp)
	if text == "" {
		return "", apperrors.NewExternalAPIError(fmt.Errorf("empty response"), "gemini")
	}
	return text, nil
}

func (n *GeminiNarrator) Close() error {
	if n.client == nil {
		return nil
	}
	return n.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
