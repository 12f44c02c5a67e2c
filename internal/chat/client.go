package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
)

// ErrNotConfigured is returned when no agent URL is set.
var ErrNotConfigured = errors.New("chat: AI agent url not configured")

// AgentRequest is the payload posted to the answering agent.
type AgentRequest struct {
	Query        string        `json:"query"`
	UserIdentity auth.Identity `json:"user_identity"`
}

type agentResponse struct {
	Response string `json:"response"`
}

// Client posts questions to the external AI answering agent.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ask forwards query with the caller identity and returns the agent's answer.
func (c *Client) Ask(ctx context.Context, query string, who auth.Identity) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}
	body, err := json.Marshal(AgentRequest{Query: query, UserIdentity: who})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent responded with status %d: %s", resp.StatusCode, string(respBody))
	}

	var out agentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return out.Response, nil
}
