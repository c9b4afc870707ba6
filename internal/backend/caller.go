package backend

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/rcoe/askme/pkg/advisor"
)

// Sleeper is an injectable wait. The real implementation blocks the calling
// goroutine only; concurrent queries sit in their own waits. Tests substitute
// a recording fake so polling delays are observable without real time.
type Sleeper interface {
	// Sleep waits for d or until ctx is cancelled, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper implements Sleeper with wall-clock waits.
type RealSleeper struct{}

// Sleep waits for d, preempted by ctx cancellation.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CallerOptions configures the shared transport behaviour for one adapter.
type CallerOptions struct {
	Timeout    time.Duration // Shared request timeout (required)
	RetryCount int           // Bounded retry for transport errors (required, >= 1 total attempts)
	RetryDelay time.Duration // Pause between transport retries
	Username   string        // Basic auth, both-or-neither with Password
	Password   string
	Sleeper    Sleeper // Defaults to RealSleeper
}

// Caller performs HTTP calls for one domain with basic auth, one shared
// timeout, and bounded retry of transport errors. Protocol-level failures
// (any status code the server actually sent) are returned to the adapter
// without retrying.
type Caller struct {
	domain     advisor.Intent
	client     *http.Client
	username   string
	password   string
	retryCount int
	retryDelay time.Duration
	sleeper    Sleeper
}

// NewCaller creates the shared transport caller for a domain.
func NewCaller(domain advisor.Intent, opts CallerOptions) *Caller {
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	retries := opts.RetryCount
	if retries < 1 {
		retries = 1
	}
	return &Caller{
		domain:     domain,
		client:     &http.Client{Timeout: opts.Timeout},
		username:   opts.Username,
		password:   opts.Password,
		retryCount: retries,
		retryDelay: opts.RetryDelay,
		sleeper:    sleeper,
	}
}

// callRequest describes one HTTP call.
type callRequest struct {
	method      string
	url         string
	query       url.Values
	contentType string
	accept      string
	body        []byte
}

// do performs the call, retrying transport errors up to the shared bound.
// Returns the status code and the full response body; the adapter decides
// whether the status is acceptable.
func (c *Caller) do(ctx context.Context, req callRequest) (int, []byte, error) {
	target := req.url
	if len(req.query) > 0 {
		target = target + "?" + req.query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryCount; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bytes.NewReader(req.body))
		if err != nil {
			return 0, nil, &ProtocolError{Domain: c.domain, Msg: "invalid request: " + err.Error()}
		}
		if req.contentType != "" {
			httpReq.Header.Set("Content-Type", req.contentType)
		}
		if req.accept != "" {
			httpReq.Header.Set("Accept", req.accept)
		}
		if c.username != "" {
			httpReq.SetBasicAuth(c.username, c.password)
		}

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = err
			// Cancellation is the caller's decision, not a transient fault.
			if ctx.Err() != nil {
				return 0, nil, &TransportError{Domain: c.domain, Err: ctx.Err()}
			}
			log.Printf("[Backend:%s] Transport error on attempt %d/%d: %v", c.domain, attempt, c.retryCount, err)
			if attempt < c.retryCount {
				if serr := c.sleeper.Sleep(ctx, c.retryDelay); serr != nil {
					return 0, nil, &TransportError{Domain: c.domain, Err: serr}
				}
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			log.Printf("[Backend:%s] Body read error on attempt %d/%d: %v", c.domain, attempt, c.retryCount, readErr)
			if attempt < c.retryCount {
				if serr := c.sleeper.Sleep(ctx, c.retryDelay); serr != nil {
					return 0, nil, &TransportError{Domain: c.domain, Err: serr}
				}
			}
			continue
		}

		return resp.StatusCode, body, nil
	}

	return 0, nil, &TransportError{Domain: c.domain, Err: lastErr}
}

// Domain returns the domain tag this caller serves.
func (c *Caller) Domain() advisor.Intent { return c.domain }
