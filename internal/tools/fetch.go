package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// ReadError marks a failure that happened after the response arrived,
// while reading its body.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// IsReadError reports whether err came from reading a response body.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}

type FetchOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	AllowedHosts []string
	BlockPrivate bool
}

// HTTPFetcher fetches http and https URLs.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	allowed      []glob.Glob
	blockPrivate bool
}

func NewHTTPFetcher(opts FetchOptions) (*HTTPFetcher, error) {
	allowed := make([]glob.Glob, 0, len(opts.AllowedHosts))
	for _, pattern := range opts.AllowedHosts {
		g, err := glob.Compile(strings.ToLower(strings.TrimSpace(pattern)), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid host pattern %q: %w", pattern, err)
		}
		allowed = append(allowed, g)
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 50 * 1024 * 1024
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "m3u8-mcp/0.1.0"
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:    ua,
		maxBodyBytes: maxBody,
		allowed:      allowed,
		blockPrivate: opts.BlockPrivate,
	}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := f.validateURL(rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return "", &ReadError{Err: err}
	}
	if int64(len(data)) > f.maxBodyBytes {
		return "", &ReadError{Err: fmt.Errorf("response body exceeds %d bytes", f.maxBodyBytes)}
	}
	return string(data), nil
}

func (f *HTTPFetcher) validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q: only http/https URLs are supported", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if f.blockPrivate {
		if ip := net.ParseIP(host); ip != nil {
			if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
				return fmt.Errorf("access to private/local IPs is blocked")
			}
		}
	}

	if len(f.allowed) == 0 {
		return nil
	}
	for _, g := range f.allowed {
		if g.Match(host) {
			return nil
		}
	}
	return fmt.Errorf("host %s is not in the allowed list", host)
}
