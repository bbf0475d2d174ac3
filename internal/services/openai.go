// OpenAI chat completion [Generator] implementation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/musicai/internal/shared"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4.1-nano"

	// noSongsSentinel is the phrase the model is instructed to answer with
	// when nothing relevant is found.
	noSongsSentinel = "No songs found."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIService implements [Generator] against the chat completion API.
type OpenAIService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIService creates a track-list generator backed by the given API key.
// Model and base URL fall back to defaults when empty.
func NewOpenAIService(apiKey, model, baseURL string) (*OpenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api_key is required", shared.ErrMissingCredentials)
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// GenerateTrackList asks the model for up to count "track - artist" lines
// matching the free-text message.
//
// An empty message yields an empty list with no network call. The sentinel
// no-result answer also yields an empty list.
func (o *OpenAIService) GenerateTrackList(ctx context.Context, message string, count int) ([]string, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil
	}
	if count <= 0 {
		count = 20
	}

	payload := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: fmt.Sprintf(
					"You are an assistant that builds song lists for playlists. "+
						"Answer only with song names followed by a space, a dash, and the artist name, "+
						"one per line, with no numbering, duration, or any additional text. "+
						"Limit yourself to %d songs. If you cannot find relevant songs, answer '%s'",
					count, noSongsSentinel),
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Generate a list of %d songs for the following request: %s", count, message),
			},
		},
		Temperature: 0.5,
		MaxTokens:   count * 10,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: openai API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices in chat response", shared.ErrAPIRequest)
	}

	return parseTrackList(chat.Choices[0].Message.Content), nil
}

// parseTrackList splits the model's answer into trimmed non-empty lines,
// treating the sentinel no-result phrase as an empty list.
func parseTrackList(answer string) []string {
	if strings.EqualFold(strings.TrimSpace(answer), noSongsSentinel) {
		return nil
	}

	var queries []string
	for _, line := range strings.FieldsFunc(answer, func(r rune) bool { return r == '\r' || r == '\n' }) {
		line = strings.TrimSpace(line)
		if line != "" {
			queries = append(queries, line)
		}
	}

	return queries
}
