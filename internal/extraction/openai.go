package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultOpenAIModel is the vision model used when none is configured.
	DefaultOpenAIModel = "gpt-5-nano-2025-08-07"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	openAIKeyEnv     = "OPENAI_API_KEY"
	openAIBaseURLEnv = "OPENAI_BASE_URL"
)

// Extractor issues one synchronous request to a vision model and returns the
// raw text of the first reply plus the completion token count. It never
// interprets the reply text.
type Extractor interface {
	Extract(ctx context.Context, instructions string, imageBase64 string) (string, int, error)
	// Close releases client resources
	Close() error
}

// OpenAI implements the Extractor interface against an OpenAI-compatible
// chat completions API.
type OpenAI struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI Extractor instance. The credential resolves
// from the explicit argument first, then the OPENAI_API_KEY environment
// variable; an AuthError is returned when neither is set. The base URL falls
// back to OPENAI_BASE_URL and then the public endpoint the same way.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		apiKey = os.Getenv(openAIKeyEnv)
	}
	if apiKey == "" {
		return nil, &AuthError{Reason: fmt.Sprintf("OpenAI API key not provided. Set %s environment variable or use --api-key", openAIKeyEnv)}
	}
	if baseURL == "" {
		baseURL = os.Getenv(openAIBaseURLEnv)
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second, // remote inference on large images can be slow
		},
	}, nil
}

// Model returns the configured model identifier.
func (o *OpenAI) Model() string {
	return o.model
}

// chatRequest represents the request body for the chat completions API
type chatRequest struct {
	Model           string          `json:"model"`
	Temperature     float64         `json:"temperature"`
	ReasoningEffort string          `json:"reasoning_effort,omitempty"`
	ResponseFormat  *responseFormat `json:"response_format,omitempty"`
	Messages        []chatMessage   `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a string for plain messages or []contentPart for
	// multimodal ones
	Content any `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse represents the response from the chat completions API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Extract sends the instructions and the base64 PNG payload to the model and
// returns the first choice's raw text. The reply is constrained to a single
// JSON document via response_format, at a fixed temperature and minimal
// reasoning effort to reduce variance. Network and HTTP failures surface as
// TransportError; no retry is attempted.
func (o *OpenAI) Extract(ctx context.Context, instructions string, imageBase64 string) (string, int, error) {
	reqBody := chatRequest{
		Model:           o.model,
		Temperature:     1,
		ReasoningEffort: "minimal",
		ResponseFormat:  &responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: instructions,
			},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: UserInstruction},
					{
						Type:     "image_url",
						ImageURL: &imageURL{URL: "data:image/png;base64," + imageBase64},
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, &TransportError{Err: fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", 0, fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", 0, fmt.Errorf("no choices in model response")
	}

	return chatResp.Choices[0].Message.Content, chatResp.Usage.CompletionTokens, nil
}

// Close closes the OpenAI client (no-op for HTTP client)
func (o *OpenAI) Close() error {
	return nil
}
