// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/vocal-architect/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-sonnet-4-5"

// ClaudeBackend calls the Claude Messages API. It takes text input only.
type ClaudeBackend struct {
	APIKey    string
	Model     string
	Client    *http.Client
	RateLimit httputil.RateLimit
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends call as one user message. The schema, when present, is
// appended to the system prompt since the Messages API has no strict JSON
// mode.
func (c *ClaudeBackend) Complete(ctx context.Context, call Call) (string, error) {
	system := call.Instructions
	if call.Schema != nil {
		schema, err := json.Marshal(call.Schema)
		if err != nil {
			return "", fmt.Errorf("marshaling schema: %w", err)
		}
		system += "\n\nThe JSON object must match this schema:\n" + string(schema)
	}

	model := c.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	maxTokens := call.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []claudeMessage{{Role: "user", Content: call.Input}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.RateLimit.Do(ctx, c.Client, req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var sb strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Claude API: %w", ErrEmptyResponse)
	}
	if cResp.StopReason == "max_tokens" {
		return "", fmt.Errorf("Claude API: reply truncated at %d tokens", maxTokens)
	}
	return sb.String(), nil
}
