// Package search queries the DuckDuckGo HTML endpoint and extracts results.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// userAgent identifies the client; the endpoint rejects empty agents.
const userAgent = "Mozilla/5.0 (compatible; gpt-cli/1.0)"

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Client queries the search endpoint. The zero value is not usable; call
// NewClient.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient returns a Client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    defaultBaseURL,
	}
}

// Search runs a query and returns at most max results.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Result, error) {
	endpoint, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	q := endpoint.Query()
	q.Set("q", query)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	return extractResults(doc, max), nil
}

// extractResults walks the document collecting result anchors and snippets,
// de-duplicated by URL.
func extractResults(doc *html.Node, max int) []Result {
	var results []Result
	seen := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if max > 0 && len(results) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			link := resolveLink(attr(n, "href"))
			title := strings.TrimSpace(nodeText(n))
			if link != "" && title != "" && !seen[link] {
				seen[link] = true
				results = append(results, Result{
					Title:   title,
					URL:     link,
					Snippet: snippetFor(n),
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

// snippetFor finds the result__snippet element sharing the anchor's result
// container.
func snippetFor(anchor *html.Node) string {
	container := anchor.Parent
	for container != nil && !hasClass(container, "result") {
		container = container.Parent
	}
	if container == nil {
		return ""
	}

	var snippet string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if snippet != "" {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "result__snippet") {
			snippet = strings.TrimSpace(nodeText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)
	return snippet
}

// resolveLink unwraps DuckDuckGo's redirect links (the uddg parameter) and
// normalizes protocol-relative URLs.
func resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
