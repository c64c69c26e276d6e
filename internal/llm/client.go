package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rtmd/internal/core"
)

// Client talks to an OpenAI-compatible LLM gateway.
type Client struct {
	config *Config
	http   *http.Client
	log    core.Logger
}

// NewClient creates a new gateway client.
func NewClient(config *Config, log core.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	if log == nil {
		log = core.NopLogger{}
	}

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
		log: log,
	}, nil
}

// gatewayRequest is an OpenAI-compatible chat completion request.
type gatewayRequest struct {
	Model    string       `json:"model"`
	Messages []gatewayMsg `json:"messages"`
}

// gatewayMsg represents a message in the conversation.
type gatewayMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// gatewayResponse is an OpenAI-compatible chat completion response.
type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateStructured generates a structured output from the gateway with
// validation and retry. T is the type of the structured output; validate
// is an optional function that rejects a semantically invalid result.
// Parse and validation failures retry with the error fed back into the
// prompt; network and API failures are returned immediately.
func GenerateStructured[T any](
	client *Client,
	ctx context.Context,
	model string,
	prompt string,
	validate func(*T) error,
) (*T, error) {
	if model == "" {
		model = client.config.DefaultModel
	}

	originalPrompt := prompt
	var lastErr error

	for attempt := 1; attempt <= client.config.MaxRetries; attempt++ {
		client.log.Debug("gateway generation attempt",
			"attempt", attempt,
			"model", model,
			"prompt_length", len(prompt),
		)

		result, err := callGateway[T](client, ctx, model, prompt)
		if err != nil {
			lastErr = err
			var gwErr *GatewayError
			if errors.As(err, &gwErr) && !gwErr.Retryable() {
				return nil, err
			}
			prompt = fmt.Sprintf("%s\n\nPREVIOUS ATTEMPT FAILED:\nError: %v\n\nPlease return valid JSON matching the exact structure requested.", originalPrompt, err)
			continue
		}

		if validate != nil {
			if err := validate(result); err != nil {
				lastErr = NewValidationError(err.Error(), err)
				client.log.Warn("gateway output validation failed",
					"attempt", attempt,
					"error", err.Error(),
				)
				prompt = fmt.Sprintf("%s\n\nPREVIOUS VALIDATION ERROR:\n%v\n\nPlease fix the output to pass validation.", originalPrompt, err)
				continue
			}
		}

		client.log.Debug("gateway generation succeeded",
			"attempt", attempt,
			"model", model,
		)
		return result, nil
	}

	return nil, fmt.Errorf("generation failed after %d attempts: %w", client.config.MaxRetries, lastErr)
}

// callGateway makes a single HTTP call to the gateway.
func callGateway[T any](client *Client, ctx context.Context, model, prompt string) (*T, error) {
	reqBody := gatewayRequest{
		Model: model,
		Messages: []gatewayMsg{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := client.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+client.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		client.log.Error("gateway HTTP request failed",
			"error", err.Error(),
			"duration", duration,
		)
		return nil, NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			client.log.Warn("failed to close response body", "error", err)
		}
	}()

	client.log.Debug("gateway HTTP request completed",
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			client.log.Warn("failed to read error response body", "error", err)
			return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return nil, NewAPIError(resp.StatusCode, upstreamMessage(errBody.Bytes()))
	}

	var gwResp gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if gwResp.Error != nil {
		return nil, NewAPIError(0, gwResp.Error.Message)
	}

	if len(gwResp.Choices) == 0 {
		return nil, NewAPIError(0, "no choices in response")
	}

	content := cleanMarkdownCodeBlocks(gwResp.Choices[0].Message.Content)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, NewParseError(content, err)
	}

	return &result, nil
}

// upstreamMessage extracts the error message from a non-2xx gateway body
// so it can be surfaced verbatim; falls back to the raw body.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// cleanMarkdownCodeBlocks removes markdown code block wrappers from JSON.
// Some models wrap JSON in ```json...```.
func cleanMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSpace(content)
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
