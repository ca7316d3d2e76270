
package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	AcceptXML  = "application/xml,text/xml;q=0.9,*/*;q=0.8"
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	DefaultUserAgent = "contentguard/1.0 (+https://example.com/contentguard)"
)

var ErrInvalidURL = errors.New("invalid url")

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("http status %d", e.Code) }

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

// Response is a fetched body. Callers must Close it.
type Response struct {
	Body        io.ReadCloser
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

// NewHTTPClient builds a client whose timeout bounds each request end to end.
func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64, userAgent string) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		// we decode gzip ourselves so the size cap applies to decoded bytes
		DisableCompression: true,
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// FetchSitemap GETs an XML document. Anything but a 200 is an error.
func (h *HTTPClient) FetchSitemap(ctx context.Context, rawURL string) (*Response, error) {
	return h.fetch(ctx, rawURL, AcceptXML, func(code int) bool { return code == http.StatusOK })
}

// FetchPage GETs an HTML page, following redirects.
func (h *HTTPClient) FetchPage(ctx context.Context, rawURL string) (*Response, error) {
	return h.fetch(ctx, rawURL, AcceptHTML, func(code int) bool { return code >= 200 && code < 300 })
}

func (h *HTTPClient) fetch(ctx context.Context, rawURL, accept string, ok func(int) bool) (*Response, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if !ok(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		body = gz
	}

	// enforce a size cap
	if h.sizeCap > 0 {
		body = io.LimitReader(body, h.sizeCap)
	}

	return &Response{
		Body:        readCloser{Reader: body, Closer: resp.Body},
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     time.Since(start),
	}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
