// Package extract fetches a legal document by URL and reduces it to a title
// and clean, de-boilerplated body text suitable for chunked analysis.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"
	"golang.org/x/net/html"
)

const (
	// defaultRequestTimeout bounds the single outbound GET per analysis
	defaultRequestTimeout = 15 * time.Second
	// defaultMaxRedirects is the maximum redirect hops when fetching
	defaultMaxRedirects = 5
	// defaultMaxBodyBytes is the maximum response body bytes to read (2MB)
	defaultMaxBodyBytes = 2 * 1024 * 1024
	// defaultMinDocumentChars rejects documents too short to analyze
	defaultMinDocumentChars = 100
	// defaultUserAgent is sent on outbound document fetches
	defaultUserAgent = "Mozilla/5.0 (compatible; ClauseGuard/1.0)"
)

// boilerplateElements are HTML subtrees dropped during text extraction
var boilerplateElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"nav":      {},
	"header":   {},
	"footer":   {},
	"aside":    {},
	"noscript": {},
	"template": {},
}

// Document is the acquired document: a title and normalized body text
type Document struct {
	// Title is the document title, falling back to the URL host
	Title string
	// Text is the normalized body text with boilerplate removed
	Text string
}

// Extractor fetches and normalizes documents
type Extractor struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	minChars     int
}

// Option configures the Extractor
type Option func(*Extractor)

// WithHTTPClient sets a custom HTTP client for document fetches
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header for document fetches
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps the response body bytes read per fetch
func WithMaxBodyBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

// WithMinDocumentChars sets the minimum normalized text length for a usable document
func WithMinDocumentChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minChars = n
		}
	}
}

// New creates an Extractor with the given options
func New(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= defaultMaxRedirects {
					return http.ErrUseLastResponse
				}

				return nil
			},
		},
		userAgent:    defaultUserAgent,
		maxBodyBytes: defaultMaxBodyBytes,
		minChars:     defaultMinDocumentChars,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract performs exactly one GET of the target URL and returns the document
// title and normalized text. Failures are not retried here; callers decide
// whether to retry.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (Document, error) {
	requester := httpsling.MustNew(
		httpsling.URL(rawURL),
		httpsling.Get(),
		httpsling.Header(httpsling.HeaderUserAgent, e.userAgent),
		httpsling.Header(httpsling.HeaderAccept, "text/html, text/plain;q=0.9"),
		httpsling.WithHTTPClient(e.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Document{}, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return Document{}, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}

	contentType := resp.Header.Get(httpsling.HeaderContentType)

	doc, err := e.parse(body, contentType)
	if err != nil {
		return Document{}, err
	}

	if doc.Title == "" {
		doc.Title = hostOf(rawURL)
	}

	return doc, nil
}

// parse turns a response body into a Document based on its content type
func (e *Extractor) parse(body []byte, contentType string) (Document, error) {
	switch {
	case strings.Contains(contentType, "text/plain"):
		text := normalizeWhitespace(string(body))
		if len(text) < e.minChars {
			return Document{}, fmt.Errorf("%w: document too short (%d chars)", ErrNoContent, len(text))
		}

		return Document{Text: text}, nil

	case contentType == "" || strings.Contains(contentType, "html"):
		return e.parseHTML(body)

	default:
		return Document{}, fmt.Errorf("%w: unsupported content type %q", ErrNoContent, contentType)
	}
}

// parseHTML strips boilerplate subtrees, prefers the main content region,
// and collapses the remaining text
func (e *Extractor) parseHTML(body []byte) (Document, error) {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: parsing html: %v", ErrNoContent, err)
	}

	title := strings.TrimSpace(findTitle(root))

	content := findMainContent(root)
	if content == nil {
		content = root
	}

	var b strings.Builder
	collectText(content, &b)

	text := normalizeWhitespace(b.String())
	if len(text) < e.minChars {
		return Document{}, fmt.Errorf("%w: document too short (%d chars)", ErrNoContent, len(text))
	}

	return Document{Title: title, Text: text}, nil
}

// findTitle returns the text of the first <title> element
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}

		return b.String()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}

	return ""
}

// findMainContent locates the primary content region: <main>, role=main, or
// <article>, falling back to <body>. Legal pages routinely wrap the actual
// terms in one of these while navigation and chrome live outside it.
func findMainContent(root *html.Node) *html.Node {
	if n := findElement(root, func(n *html.Node) bool {
		return n.Data == "main" || hasAttr(n, "role", "main")
	}); n != nil {
		return n
	}

	if n := findElement(root, func(n *html.Node) bool { return n.Data == "article" }); n != nil {
		return n
	}

	return findElement(root, func(n *html.Node) bool { return n.Data == "body" })
}

// findElement walks the tree depth-first for the first element matching the predicate
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}

	return nil
}

// hasAttr reports whether the element carries the given attribute value
func hasAttr(n *html.Node, key, val string) bool {
	for _, a := range n.Attr {
		if a.Key == key && strings.EqualFold(a.Val, val) {
			return true
		}
	}

	return false
}

// collectText appends the text content of non-boilerplate subtrees,
// separating nodes with spaces so words never fuse across elements
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := boilerplateElements[n.Data]; skip {
			return
		}
	}

	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// normalizeWhitespace collapses all whitespace runs to single spaces.
// Sentence punctuation keeps its trailing space, so later excerpt matching
// against this text stays verbatim.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hostOf returns the host portion of a URL for use as a fallback title
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	return u.Host
}
