package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// StatusError reports a terminal HTTP status outside the set the client
// understands (2xx, 304 and the redirects it follows itself).
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

// Options carries the cached validator pair from the previous successful
// fetch plus any extra request headers (e.g. the identifying User-Agent
// for the source class).
type Options struct {
	ETag         string
	LastModified string
	Header       http.Header
}

// Result is the outcome of one conditional GET.
type Result struct {
	// WasModified is false only for a 304 terminal response.
	WasModified bool
	Body        []byte

	// Validators to store for the next fetch. On a 304 these are the
	// previously cached values passed through unchanged; on a 200 they
	// are whatever the origin sent, empty when it sent none.
	ETag         string
	LastModified string

	// FinalURL is the address after following the whole redirect chain.
	// PermanentRedirect is true when the first hop was a 301 or 308,
	// regardless of what the terminal response was.
	FinalURL          string
	PermanentRedirect bool

	StatusCode int
}

// Client performs single conditional GETs. It never retries; callers rely
// on the next scheduled sync instead.
type Client struct {
	transport http.RoundTripper
	timeout   time.Duration
	logger    *slog.Logger
}

func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		transport: http.DefaultTransport,
		timeout:   timeout,
		logger:    logger.With("component", "fetch"),
	}
}

// Fetch issues one GET for url, sending If-Modified-Since / If-None-Match
// when prior validators exist. Transport failures and unexpected status
// codes are both returned as errors; the caller treats them alike.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if opts.LastModified != "" {
		req.Header.Set("If-Modified-Since", opts.LastModified)
	}
	if opts.ETag != "" {
		req.Header.Set("If-None-Match", opts.ETag)
	}

	// The permanence of the chain is decided by the first hop alone, so
	// it has to be captured while the redirects are being followed.
	var permanent bool
	client := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
		CheckRedirect: func(next *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if len(via) == 1 && next.Response != nil {
				switch next.Response.StatusCode {
				case http.StatusMovedPermanently, http.StatusPermanentRedirect:
					permanent = true
				}
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	res := &Result{
		FinalURL:          resp.Request.URL.String(),
		PermanentRedirect: permanent,
		StatusCode:        resp.StatusCode,
	}

	switch {
	case resp.StatusCode == http.StatusNotModified:
		// A 304 carries no validators worth trusting; the cached pair
		// stays in force.
		res.ETag = opts.ETag
		res.LastModified = opts.LastModified
		c.logger.Debug("not modified", "url", url)
		return res, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		res.WasModified = true
		res.Body = body
		res.ETag = resp.Header.Get("ETag")
		res.LastModified = resp.Header.Get("Last-Modified")
		return res, nil

	default:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
}
