package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/utils"
)

const maxResponseBytes = 1 << 20

// AIClientOptions configures the OpenAI-compatible client.
type AIClientOptions struct {
	Endpoint   string        // base URL, ex: https://api.openai.com
	APIKey     string        // bearer token
	EmbedModel string        // ex: text-embedding-3-small
	ChatModel  string        // ex: gpt-4o-mini
	Timeout    time.Duration // per-call timeout
}

// AIClient talks to an OpenAI-compatible API and implements Embedder,
// TagGenerator and InsightGenerator.
type AIClient struct {
	opts   AIClientOptions
	client *http.Client
	log    logger.Logger
}

func NewAIClient(opts AIClientOptions, log logger.Logger) *AIClient {
	if opts.Timeout == 0 {
		opts.Timeout = 45 * time.Second
	}
	return &AIClient{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		log:    log,
	}
}

var (
	_ Embedder         = (*AIClient)(nil)
	_ TagGenerator     = (*AIClient)(nil)
	_ InsightGenerator = (*AIClient)(nil)
)

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed produces a semantic vector for the text.
func (c *AIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty input")
	}

	var resp embeddingsResponse
	req := embeddingsRequest{Model: c.opts.EmbedModel, Input: []string{text}}
	if err := c.do(ctx, "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, f := range resp.Data[0].Embedding {
		vec[i] = float32(f)
	}
	return vec, nil
}

// GenerateTags asks the chat model for tag names describing the page.
func (c *AIClient) GenerateTags(ctx context.Context, text, url, promptOverride string) ([]string, error) {
	prompt := promptOverride
	if prompt == "" {
		prompt = tagPrompt(text, url)
	}

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse tag response: %w", err)
	}
	return out.Tags, nil
}

// GenerateInsights asks the chat model for a summary, sentiment score,
// tag list and related links at the requested depth.
func (c *AIClient) GenerateInsights(ctx context.Context, url, text string, depth int, promptOverride string, mediaURLs []string) (*InsightResult, error) {
	prompt := promptOverride
	if prompt == "" {
		prompt = insightPrompt(url, text, depth, mediaURLs)
	}

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out InsightResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse insight response: %w", err)
	}
	return &out, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete sends one user message and returns the model's content with any
// markdown code fences stripped.
func (c *AIClient) complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.opts.ChatModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	}

	var resp chatResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content), nil
}

func (c *AIClient) do(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.opts.Endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("ai provider returned error",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
		return fmt.Errorf("provider error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func tagPrompt(text, url string) string {
	var b strings.Builder
	b.WriteString("Suggest 3-7 short lowercase topic tags for this page. ")
	b.WriteString(`Reply with JSON only, no code fences: {"tags": ["..."]}` + "\n\n")
	fmt.Fprintf(&b, "URL: %s\n", url)
	if text != "" {
		fmt.Fprintf(&b, "Content:\n%s\n", clip(text, 4000))
	}
	return b.String()
}

func insightPrompt(url, text string, depth int, mediaURLs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this page at depth %d (1 = brief, higher = deeper). ", depth)
	b.WriteString("Reply with JSON only, no code fences: ")
	b.WriteString(`{"summary": "...", "sentiment": -1.0..1.0, "tags": ["..."], "related_links": ["..."]}` + "\n\n")
	fmt.Fprintf(&b, "URL: %s\n", url)
	if text != "" {
		fmt.Fprintf(&b, "Content:\n%s\n", clip(text, 6000))
	}
	if len(mediaURLs) > 0 {
		fmt.Fprintf(&b, "Media: %s\n", strings.Join(mediaURLs, ", "))
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
