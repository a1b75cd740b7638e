package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamflowdev/call-coordinator/pkg/config"
)

func TestSummarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarize" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Fatalf("missing api key header, got %q", got)
		}
		var payload struct {
			RoomID  string `json:"room_id"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.RoomID != "aaa-bbbb-ccc" || payload.Content == "" {
			t.Fatalf("bad payload: %+v", payload)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"summary":      "discussed the Q3 launch",
			"action_items": []string{"book the review"},
		})
	}))
	defer ts.Close()

	client := NewClient(&config.SummarizerConfig{BaseURL: ts.URL, APIKey: "test-key"})
	result, err := client.Summarize(context.Background(), "aaa-bbbb-ccc", "Alice: hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "discussed the Q3 launch" {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if len(result.ActionItems) != 1 {
		t.Fatalf("expected 1 action item got %d", len(result.ActionItems))
	}
}

func TestSummarize_StripsMarkdownFences(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"summary": "```json\ndiscussed the Q3 launch\n```",
		})
	}))
	defer ts.Close()

	client := NewClient(&config.SummarizerConfig{BaseURL: ts.URL})
	result, err := client.Summarize(context.Background(), "aaa-bbbb-ccc", "content")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "discussed the Q3 launch" {
		t.Fatalf("fences not stripped: %q", result.Summary)
	}
}

func TestSummarize_EmptySummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"summary": "   "})
	}))
	defer ts.Close()

	client := NewClient(&config.SummarizerConfig{BaseURL: ts.URL})
	if _, err := client.Summarize(context.Background(), "aaa-bbbb-ccc", "content"); err == nil {
		t.Fatal("expected an error on empty summary")
	}
}
