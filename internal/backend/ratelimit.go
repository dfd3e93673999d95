package backend

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultMaxRetries = 5

// RateLimitTransport wraps an http.RoundTripper with client-side rate
// limiting and retries on 429 and 503.
type RateLimitTransport struct {
	ReqPerSec  float64           // 0 = unlimited (retry-only)
	Base       http.RoundTripper // nil = http.DefaultTransport
	MaxRetries int               // 0 = defaultMaxRetries
	// Backoff returns the delay before retry attempt n (0-based) when the
	// response has no Retry-After header. nil = 1s, 2s, 4s...
	Backoff func(attempt int) time.Duration

	once    sync.Once
	limiter *rate.Limiter
}

func (t *RateLimitTransport) init() {
	if t.ReqPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(t.ReqPerSec), 1)
	}
}

func (t *RateLimitTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RateLimitTransport) maxRetries() int {
	if t.MaxRetries > 0 {
		return t.MaxRetries
	}
	return defaultMaxRetries
}

func (t *RateLimitTransport) backoff(attempt int) time.Duration {
	if t.Backoff != nil {
		return t.Backoff(attempt)
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// RoundTrip implements http.RoundTripper. Requests with a body are only
// retried when the body can be replayed through GetBody; retries go out on a
// clone so req itself is never modified.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.once.Do(t.init)
	ctx := req.Context()
	hasBody := req.Body != nil && req.Body != http.NoBody

	cur := req
	for attempt := 0; ; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := t.base().RoundTrip(cur)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= t.maxRetries() {
			return resp, nil
		}
		if hasBody && req.GetBody == nil {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		delay := t.backoff(attempt)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
				delay = time.Duration(secs) * time.Second
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		cur = req.Clone(ctx)
		if hasBody {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			cur.Body = body
		}
	}
}
