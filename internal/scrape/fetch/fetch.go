package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Hosts that moved; a 404 on the key is retried once on the value.
var defaultMirrors = map[string]string{
	"dto.to": "bato.ing",
}

var ErrInvalidURL = errors.New("invalid url")

type FetchError struct {
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch failed with status %d: %s", e.Status, e.Message)
	}
	return "fetch failed: " + e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Page struct {
	URL  *url.URL
	Body string
}

func (p *Page) Host() string {
	if p == nil || p.URL == nil {
		return ""
	}
	return strings.ToLower(p.URL.Hostname())
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	Transport http.RoundTripper
	Mirrors   map[string]string
}

type Fetcher struct {
	client  *http.Client
	mirrors map[string]string
}

func New(opts Options) *Fetcher {
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	mirrors := opts.Mirrors
	if mirrors == nil {
		mirrors = defaultMirrors
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: browserHeaders{base: base, userAgent: opts.UserAgent},
		},
		mirrors: mirrors,
	}
}

func ParseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return parsed, nil
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, status, err := f.get(ctx, target)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		if mirrorHost, ok := f.mirrors[strings.ToLower(target.Hostname())]; ok {
			mirrored := *target
			mirrored.Host = mirrorHost
			page, status, err = f.get(ctx, &mirrored)
			if err != nil {
				return nil, err
			}
		}
	}

	if status < 200 || status >= 300 {
		return nil, &FetchError{Status: status, Message: http.StatusText(status)}
	}

	return page, nil
}

func (f *Fetcher) get(ctx context.Context, target *url.URL) (*Page, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, 0, &FetchError{Message: "create request", Err: err}
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, 0, &FetchError{Message: err.Error(), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, res.StatusCode, nil
	}

	rawBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, &FetchError{Message: "read response body", Err: err}
	}

	finalURL := target
	if res.Request != nil && res.Request.URL != nil {
		finalURL = res.Request.URL
	}

	return &Page{URL: finalURL, Body: string(rawBody)}, res.StatusCode, nil
}

type browserHeaders struct {
	base      http.RoundTripper
	userAgent string
}

func (b browserHeaders) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", b.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}
	return b.base.RoundTrip(req)
}
