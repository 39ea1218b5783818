package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-pro"

const geminiKeyEnv = "GEMINI_API_KEY"

// Gemini implements the Extractor interface using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Extractor instance. The credential resolves
// from the explicit argument first, then the GEMINI_API_KEY environment
// variable.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		apiKey = os.Getenv(geminiKeyEnv)
	}
	if apiKey == "" {
		return nil, &AuthError{Reason: fmt.Sprintf("Gemini API key not provided. Set %s environment variable or use --api-key", geminiKeyEnv)}
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Constrain the reply to a single JSON document, mirroring the
	// response_format flag on the OpenAI path
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(1)

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Extract sends the instructions and the image to Gemini and returns the raw
// text reply. The encoder hands over base64; Gemini wants raw PNG bytes, so
// the payload is decoded back before the call.
func (g *Gemini) Extract(ctx context.Context, instructions string, imageBase64 string) (string, int, error) {
	imageData, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", 0, fmt.Errorf("decoding image payload: %w", err)
	}

	parts := []genai.Part{
		genai.ImageData("png", imageData),
		genai.Text(instructions),
		genai.Text(UserInstruction),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", 0, &TransportError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	var completionTokens int
	if resp.UsageMetadata != nil {
		completionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return responseText.String(), completionTokens, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
