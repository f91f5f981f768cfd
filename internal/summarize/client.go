// Package summarize calls an OpenAI-compatible chat-completions backend to
// produce short natural-language descriptions of file contents.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/temirov/sumtree/internal/config"
)

const (
	chatCompletionsPath = "/chat/completions"

	systemPrompt = "You are a professional code analyst who writes concise code summaries."

	userPromptFormat = `Write a concise summary of the following code file. The summary should cover:
1. The file's main purpose
2. Its core types and functions
3. Notable behavior

File path: %s
Content:
%s`
)

// Summarizer produces a short description for a file's content.
type Summarizer interface {
	Summarize(ctx context.Context, relativePath string, content string) (string, error)
}

// Client implements Summarizer against an OpenAI-compatible endpoint.
type Client struct {
	settings   config.Settings
	httpClient *http.Client
}

// NewClient constructs a summarization client from resolved settings.
func NewClient(settings config.Settings) *Client {
	return &Client{
		settings:   settings,
		httpClient: &http.Client{},
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
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Summarize requests a summary for the provided file content. Network errors,
// rate limits, server errors, and empty responses are retried up to the
// configured attempt count with the configured delay; authentication and
// other client errors fail immediately.
func (client *Client) Summarize(ctx context.Context, relativePath string, content string) (string, error) {
	requestPayload := chatRequest{
		Model: client.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, relativePath, content)},
		},
		Temperature: client.settings.Temperature,
		MaxTokens:   client.settings.MaxTokens,
	}
	requestBody, marshalError := json.Marshal(requestPayload)
	if marshalError != nil {
		return "", fmt.Errorf("marshal summarization request: %w", marshalError)
	}

	attempts := client.settings.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	retryDelay := time.Duration(client.settings.RetryDelay) * time.Second

	var lastError error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		summary, requestError := client.requestSummary(ctx, requestBody)
		if requestError == nil {
			if summary != "" {
				return summary, nil
			}
			lastError = &RequestError{Kind: FailureMalformedResponse, Message: "backend returned an empty summary"}
			continue
		}
		lastError = requestError
		if !isRetryable(requestError) {
			return "", requestError
		}
	}

	return "", fmt.Errorf("summarization failed after %d attempts: %w", attempts, lastError)
}

// requestSummary performs a single chat-completions call.
func (client *Client) requestSummary(ctx context.Context, requestBody []byte) (string, error) {
	endpoint := strings.TrimSuffix(client.settings.APIBase, "/") + chatCompletionsPath
	httpRequest, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if requestError != nil {
		return "", fmt.Errorf("create summarization request: %w", requestError)
	}
	httpRequest.Header.Set("Authorization", "Bearer "+client.settings.APIKey)
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, sendError := client.httpClient.Do(httpRequest)
	if sendError != nil {
		return "", &RequestError{Kind: FailureNetwork, Message: sendError.Error()}
	}
	responseBody, readError := io.ReadAll(httpResponse.Body)
	closeError := httpResponse.Body.Close()
	if readError != nil {
		return "", &RequestError{Kind: FailureNetwork, Message: readError.Error()}
	}
	if closeError != nil {
		return "", &RequestError{Kind: FailureNetwork, Message: closeError.Error()}
	}

	if httpResponse.StatusCode != http.StatusOK {
		return "", classifyStatusError(httpResponse.StatusCode, responseBody)
	}

	var decodedResponse chatResponse
	if decodeError := json.Unmarshal(responseBody, &decodedResponse); decodeError != nil {
		return "", &RequestError{Kind: FailureMalformedResponse, Message: decodeError.Error()}
	}
	if len(decodedResponse.Choices) == 0 {
		return "", &RequestError{Kind: FailureMalformedResponse, Message: "response contains no choices"}
	}
	return strings.TrimSpace(decodedResponse.Choices[0].Message.Content), nil
}

// classifyStatusError maps a non-200 response onto a RequestError kind.
func classifyStatusError(statusCode int, responseBody []byte) error {
	message := string(responseBody)
	var decodedError apiErrorResponse
	if json.Unmarshal(responseBody, &decodedError) == nil && decodedError.Error.Message != "" {
		message = decodedError.Error.Message
	}

	kind := FailureMalformedResponse
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = FailureAuthentication
	case statusCode == http.StatusTooManyRequests:
		kind = FailureRateLimit
	case statusCode >= 500:
		kind = FailureNetwork
	}
	return &RequestError{Kind: kind, StatusCode: statusCode, Message: message}
}

var _ Summarizer = (*Client)(nil)
