package perception

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"haru/internal/logging"
	"haru/internal/types"
)

// GeminiClient implements Client over the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// DefaultGeminiModel is used when the connection names no model.
const DefaultGeminiModel = "gemini-2.0-flash"

// NewGeminiClient creates a Gemini-backed completion client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Complete sends the system instruction and history to Gemini and returns the
// raw model text.
func (c *GeminiClient) Complete(ctx context.Context, systemInstruction string, history []types.ConversationTurn) (string, error) {
	contents := geminiContents(history)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	logging.API("gemini request model=%s turns=%d", c.model, len(contents))
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		logging.APIError("gemini request failed: %v", err)
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		logging.APIError("gemini returned empty response")
		return "", fmt.Errorf("gemini completion: empty response")
	}
	return text, nil
}

// geminiContents maps conversation turns to genai contents. Assistant turns
// become model-role contents; everything else is sent as the user role.
func geminiContents(history []types.ConversationTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}
