package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fjacquet/stmt-extract/internal/extracterror"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
)

// chatClient is the shared transport for the REST chat-completion backends.
// The endpoints are OpenAI-compatible; variants differ in base URL, model
// and credentials.
type chatClient struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     logging.Logger
}

func newChatClient(name, baseURL, apiKey, model string, timeoutSeconds int, logger logging.Logger) *chatClient {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	return &chatClient{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// complete sends one chat completion and returns the message content plus
// token usage. Failures are classified into the shared provider taxonomy.
func (c *chatClient) complete(ctx context.Context, userPrompt string) (string, models.ExtractionUsage, error) {
	reqID := uuid.NewString()
	start := time.Now()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", models.ExtractionUsage{}, fmt.Errorf("encode chat request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", models.ExtractionUsage{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("Chat completion request",
		logging.Field{Key: logging.FieldProvider, Value: c.name},
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: logging.FieldRequestID, Value: reqID},
		logging.Field{Key: "prompt_bytes", Value: len(body)})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.ExtractionUsage{}, extracterror.Network(c.name, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("Response body close failed",
				logging.Field{Key: logging.FieldProvider, Value: c.name},
				logging.Field{Key: logging.FieldError, Value: cerr})
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.ExtractionUsage{}, extracterror.Network(c.name, err)
	}

	c.logger.Debug("Chat completion response",
		logging.Field{Key: logging.FieldProvider, Value: c.name},
		logging.Field{Key: logging.FieldRequestID, Value: reqID},
		logging.Field{Key: logging.FieldStatus, Value: resp.StatusCode},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", models.ExtractionUsage{}, extracterror.Classify(c.name, resp.StatusCode, string(raw), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", models.ExtractionUsage{}, extracterror.Classify(c.name, resp.StatusCode, string(raw),
			fmt.Errorf("decode chat response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", models.ExtractionUsage{}, extracterror.Classify(c.name, resp.StatusCode, string(raw),
			fmt.Errorf("chat response has no choices"))
	}

	usage := models.ExtractionUsage{
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), usage, nil
}
