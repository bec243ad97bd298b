package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// LLMClient answers messages the rule set cannot classify.
type LLMClient interface {
	Reply(ctx context.Context, message string) (string, error)
}

const assistantInstruction = "You are a concise assistant for a medical clinic's patient portal. " +
	"You help patients find doctors, understand how booking and payment work, and answer general clinic questions. " +
	"You never give medical advice or a diagnosis; for medical concerns, direct the patient to book an appointment. " +
	"For emergencies, direct the patient to call 911."

// GeminiClient implements LLMClient using Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatbot: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("chatbot: failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

// Reply sends a single-turn completion request to Gemini.
func (c *GeminiClient) Reply(ctx context.Context, message string) (string, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(assistantInstruction))
	model.SetMaxOutputTokens(512)

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("chatbot: gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("chatbot: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("chatbot: gemini returned empty content")
	}

	var out strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return strings.TrimSpace(out.String()), nil
}
