package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nsommier/hoard/internal/logger"
)

func newFakeAI(t *testing.T, handler http.HandlerFunc) (*AIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewAIClient(AIClientOptions{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		EmbedModel: "embed-model",
		ChatModel:  "chat-model",
		Timeout:    2 * time.Second,
	}, logger.Nop())
	return c, srv
}

func chatReply(content string) []byte {
	out, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return out
}

func TestEmbed(t *testing.T) {
	c, _ := newFakeAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "embed-model" || len(req.Input) != 1 {
			t.Errorf("request = %+v", req)
		}
		_, _ = w.Write([]byte(`{"data": [{"index": 0, "embedding": [0.25, -1.5]}]}`))
	})

	vec, err := c.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.25 || vec[1] != -1.5 {
		t.Errorf("vec = %v", vec)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	c, _ := newFakeAI(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty input")
	})
	if _, err := c.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateTagsStripsCodeFences(t *testing.T) {
	c, _ := newFakeAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write(chatReply("```json\n{\"tags\": [\"go\", \"testing\"]}\n```"))
	})

	tags, err := c.GenerateTags(context.Background(), "text", "https://example.com", "")
	if err != nil {
		t.Fatalf("GenerateTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "testing" {
		t.Errorf("tags = %v", tags)
	}
}

func TestGenerateInsights(t *testing.T) {
	c, _ := newFakeAI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatReply(`{"summary": "short", "sentiment": 0.7, "tags": ["go"], "related_links": ["https://go.dev"]}`))
	})

	res, err := c.GenerateInsights(context.Background(), "https://example.com", "text", 2, "", nil)
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if res.Summary != "short" || res.Sentiment != 0.7 {
		t.Errorf("result = %+v", res)
	}
}

func TestProviderErrorStatus(t *testing.T) {
	c, _ := newFakeAI(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	if _, err := c.GenerateTags(context.Background(), "text", "https://example.com", ""); err == nil {
		t.Fatal("expected error for 429")
	}
}

func TestGenerateTagsMalformedJSON(t *testing.T) {
	c, _ := newFakeAI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatReply("sorry, I cannot help with that"))
	})

	if _, err := c.GenerateTags(context.Background(), "text", "https://example.com", ""); err == nil {
		t.Fatal("expected parse error")
	}
}
