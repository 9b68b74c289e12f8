// Package providers holds the external collaborators the enrichment pipeline
// depends on: page metadata extraction, embeddings, AI tag generation and
// AI insight generation. All of them are best-effort; callers treat failures
// as "this provider produced nothing".
package providers

import "context"

// PageMetadata is the best-effort result of fetching a URL.
type PageMetadata struct {
	Title       string
	Description string
	Content     string
}

// Extractor fetches page metadata for a URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (*PageMetadata, error)
}

// Embedder produces a fixed-dimension semantic vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TagGenerator derives tag names from page content and/or the URL.
type TagGenerator interface {
	GenerateTags(ctx context.Context, text, url, promptOverride string) ([]string, error)
}

// InsightResult is the output of insight generation.
type InsightResult struct {
	Summary      string   `json:"summary"`
	Sentiment    float64  `json:"sentiment"`
	Tags         []string `json:"tags"`
	RelatedLinks []string `json:"related_links"`
}

// InsightGenerator derives a summary, sentiment and tag list for a URL.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, url, text string, depth int, promptOverride string, mediaURLs []string) (*InsightResult, error)
}
