// Package webpage retrieves the readable text of a page so URL queries can be
// analyzed against their content instead of the bare address.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/phrazzld/ghost-api/internal/config"
	"github.com/phrazzld/ghost-api/internal/redact"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// maxRedirects caps how many redirects a single fetch follows.
const maxRedirects = 5

// noiseSelector matches elements whose text is never page content.
const noiseSelector = "script, style, noscript, svg, iframe, template"

var (
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status fetching page")

	// ErrUnsupportedContent is returned when the page is neither HTML nor plain text.
	ErrUnsupportedContent = errors.New("unsupported page content type")

	// ErrNoText is returned when a page yields no readable text.
	ErrNoText = errors.New("page contains no readable text")

	// ErrBlockedAddress is returned when a URL resolves to a loopback,
	// private, link-local or otherwise non-public address.
	ErrBlockedAddress = errors.New("page address is not publicly routable")

	// ErrTooManyRedirects is returned when a fetch exceeds maxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects fetching page")
)

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598), which
// netip does not report as private.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Page is the readable material extracted from a URL.
type Page struct {
	URL       string
	Title     string
	Text      string
	Truncated bool
}

// Fetcher downloads pages and extracts their text. It is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	cfg    config.FetchConfig
	logger *slog.Logger
}

// NewPublicClient returns an HTTP client that only connects to public
// addresses and follows at most maxRedirects redirects. The address check
// runs after DNS resolution, so it also covers redirect targets.
func NewPublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: rejectNonPublic,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: limitRedirects,
	}
}

// rejectNonPublic is a net.Dialer Control hook refusing non-public IPs.
func rejectNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	if !isPublic(ip.Unmap()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

func isPublic(ip netip.Addr) bool {
	return ip.IsGlobalUnicast() &&
		!ip.IsPrivate() &&
		!ip.IsLoopback() &&
		!ip.IsLinkLocalUnicast() &&
		!sharedAddressSpace.Contains(ip)
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, len(via))
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: redirect to %s scheme", ErrBlockedAddress, req.URL.Scheme)
	}
	return nil
}

// NewFetcher creates a Fetcher. A nil client gets NewPublicClient(cfg.Timeout).
func NewFetcher(cfg config.FetchConfig, client *http.Client, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.MaxChars <= 0 {
		return nil, fmt.Errorf("max chars must be positive, got %d", cfg.MaxChars)
	}
	if client == nil {
		client = NewPublicClient(cfg.Timeout)
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}, nil
}

// Fetch downloads rawURL and returns its title and whitespace-collapsed text,
// truncated to the configured number of characters.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.DebugContext(ctx, "failed to close page body", "error", redact.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)

	var title, text string
	switch mediaType(resp.Header.Get("Content-Type")) {
	case "text/html", "application/xhtml+xml", "":
		title, text, err = extractHTML(body)
		if err != nil {
			return nil, err
		}
	case "text/plain":
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		text = collapseWhitespace(string(raw))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, resp.Header.Get("Content-Type"))
	}

	if text == "" {
		return nil, ErrNoText
	}

	text, truncated := truncateRunes(text, f.cfg.MaxChars)

	return &Page{
		URL:       rawURL,
		Title:     title,
		Text:      text,
		Truncated: truncated,
	}, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// extractHTML returns the document title and visible body text.
func extractHTML(r io.Reader) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", fmt.Errorf("parse page: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	title := collapseWhitespace(doc.Find("title").First().Text())

	body := doc.Find("body")
	var text string
	if body.Length() > 0 {
		text = collapseWhitespace(body.Text())
	} else {
		text = collapseWhitespace(doc.Text())
	}

	return title, text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
