// Package summarizer is the client for the AI summarization service.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/pkg/config"
)

// Client is a minimal client for the summarization service. Its timeout is
// much longer than the default RPC timeout used elsewhere because LLM
// calls on long transcripts take minutes, not seconds.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a summarizer client using values from the provided
// config.
func NewClient(cfg *config.SummarizerConfig) *Client {
	timeout := 120 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	var base, key string
	if cfg != nil {
		base = cfg.BaseURL
		key = cfg.APIKey
	}

	return &Client{
		apiKey:  key,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

type summarizeRequest struct {
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}

// Summarize sends the rendered transcript and returns the generated
// summary and extracted action items.
func (c *Client) Summarize(ctx context.Context, roomID, content string) (*entities.MeetingSummary, error) {
	body, err := json.Marshal(summarizeRequest{RoomID: roomID, Content: content})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/summarize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarize call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	var raw struct {
		Summary     string   `json:"summary"`
		ActionItems []string `json:"action_items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	summary := extractJSONSummary(raw.Summary)
	if summary == "" {
		return nil, fmt.Errorf("empty summary from service")
	}

	return &entities.MeetingSummary{
		Summary:     summary,
		ActionItems: raw.ActionItems,
	}, nil
}

// extractJSONSummary strips markdown code fences the model sometimes wraps
// its output in.
func extractJSONSummary(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
