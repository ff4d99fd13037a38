package assistant

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when the Gemini backend has no key.
var ErrMissingAPIKey = errors.New("missing API key (set GEMINI_API_KEY)")

// Gemini generates text with the Gemini API.
type Gemini struct {
	APIKey string
	Model  string // default "gemini-2.5-flash"
}

// Generate implements Generator. A client is created per call.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", &ServiceError{Provider: "gemini", Err: ErrMissingAPIKey}
	}
	model := g.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &ServiceError{Provider: "gemini", Err: err}
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", &ServiceError{Provider: "gemini", Err: err}
	}
	return resp.Text(), nil
}
