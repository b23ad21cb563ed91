package transfermarkt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/resilience"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

const (
	defaultBaseURL           = "https://transfermarkt-api.fly.dev"
	defaultTimeout           = 10 * time.Second
	defaultRequestsPerMinute = 120
	maxResponseBytes         = 4 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)

var (
	errTransient = crerr.New("transfermarkt transient failure")
	errNotFound  = crerr.New("transfermarkt resource not found")
)

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	Retry             resilience.RetryPolicy
	CircuitBreaker    resilience.CircuitBreakerConfig
	Logger            *logging.Logger
}

// Client talks to a Transfermarkt-style REST API. Every call goes through
// the rate limiter, the circuit breaker, request coalescing and a
// fixed-delay retry, in that order.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	retry      resilience.RetryPolicy
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = defaultRequestsPerMinute
	}
	limit := rate.Inf
	if rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60.0)
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = resilience.DefaultRetryPolicy()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		limiter:    rate.NewLimiter(limit, 1),
		retry:      resilience.NormalizeRetryPolicy(retry),
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		logger:     logger.Named("transfermarkt"),
	}
}

// getJSON decodes the response of path into target. A 404 reports false
// with a nil error; every other failure is marked ErrUpstreamUnavailable.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) (bool, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "transfermarkt circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
		return false, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "transfermarkt %s: %v", path, err)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.fetch(ctx, fullURL)
		c.breaker.Record(isCircuitFailure(reqErr))
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, errNotFound) {
			return false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "transfermarkt %s: %s", path, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	raw, ok := out.([]byte)
	if !ok {
		return false, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return false, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "decode transfermarkt %s: %v", path, err)
	}
	return true, nil
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context, attempt int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return resilience.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return resilience.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return crerr.Mark(crerr.Newf("send request (attempt %d): %s", attempt, sanitizeSensitiveText(err.Error(), c.apiKey)), errTransient)
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()

		switch {
		case readErr != nil:
			return crerr.Mark(crerr.Wrap(readErr, "read response body"), errTransient)
		case resp.StatusCode == http.StatusNotFound:
			return resilience.Permanent(errNotFound)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = raw
			return nil
		case isRetryableStatus(resp.StatusCode):
			return crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errTransient)
		default:
			return resilience.Permanent(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
		}
	})
	if err != nil && !crerr.Is(err, errNotFound) {
		c.logger.WarnContext(ctx, "transfermarkt request failed", "url", redactAPIURL(fullURL), "error", sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	return body, err
}

// isCircuitFailure counts only outages against the breaker; a missing
// resource or a rejected request says nothing about upstream health.
func isCircuitFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errTransient) || errors.Is(err, context.DeadlineExceeded)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "api_key=REDACTED")
	}
	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 256 {
		return text[:256] + "..."
	}
	return text
}
