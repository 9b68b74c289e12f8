package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nsommier/hoard/internal/utils"
)

const extractUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTMLExtractor fetches a page and pulls out its title, description and
// visible text.
type HTMLExtractor struct {
	client   *http.Client
	maxBytes int64
}

// NewHTMLExtractor creates a page metadata extractor with a bounded fetch
// timeout and body size cap.
func NewHTMLExtractor(timeout time.Duration, maxBytes int64) *HTMLExtractor {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &HTMLExtractor{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

var _ Extractor = (*HTMLExtractor)(nil)

// Extract fetches the URL and parses metadata out of the HTML. Best-effort:
// any network or parse failure returns an error and no metadata.
func (e *HTMLExtractor) Extract(ctx context.Context, url string) (*PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", extractUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	meta := parseMetadata(doc)
	if meta.Title == "" && meta.Description == "" && meta.Content == "" {
		return nil, fmt.Errorf("no metadata found")
	}
	return meta, nil
}

// parseMetadata walks the document collecting title, meta descriptions and
// body text. Exposed to tests through Extract only.
func parseMetadata(doc *html.Node) *PageMetadata {
	meta := &PageMetadata{}
	var ogTitle, ogDesc string
	var body strings.Builder

	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if n.FirstChild != nil && meta.Title == "" {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, property, content := attrs(n)
				switch {
				case property == "og:title":
					ogTitle = content
				case property == "og:description":
					ogDesc = content
				case name == "description":
					meta.Description = content
				}
			case "body":
				inBody = true
			case "script", "style", "noscript":
				return
			}
		case html.TextNode:
			if inBody {
				if text := strings.TrimSpace(n.Data); text != "" {
					body.WriteString(text)
					body.WriteByte(' ')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)

	// og: values win when present
	if ogTitle != "" {
		meta.Title = ogTitle
	}
	if ogDesc != "" {
		meta.Description = ogDesc
	}
	meta.Content = strings.TrimSpace(body.String())
	return meta
}

func attrs(n *html.Node) (name, property, content string) {
	for _, a := range n.Attr {
		switch a.Key {
		case "name":
			name = a.Val
		case "property":
			property = a.Val
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}
	return name, property, content
}
