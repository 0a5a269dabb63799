package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/JDLondon7/twitter-trading-bot/internal/common"
	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
)

const (
	// DefaultBaseURL is the base URL for the X API.
	DefaultBaseURL = "https://api.twitter.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second
)

// TwitterPublisher publishes posts via the X v2 create-tweet endpoint.
// In dry-run mode nothing leaves the process; the post is logged and a
// synthetic id returned so the pipeline exercises its full path.
type TwitterPublisher struct {
	baseURL    string
	mode       interfaces.PublishMode
	httpClient *http.Client
	logger     arbor.ILogger
}

// Option configures the TwitterPublisher.
type Option func(*TwitterPublisher)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(p *TwitterPublisher) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(p *TwitterPublisher) {
		p.httpClient = httpClient
	}
}

// WithTimeout overrides the HTTP timeout on the publisher's client.
func WithTimeout(timeout time.Duration) Option {
	return func(p *TwitterPublisher) {
		if timeout > 0 {
			p.httpClient.Timeout = timeout
		}
	}
}

// New creates a publisher. accessToken is an OAuth2 user-context token; it is
// passed through to the API untouched and may be empty in dry-run mode.
func New(mode interfaces.PublishMode, accessToken string, logger arbor.ILogger, opts ...Option) *TwitterPublisher {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = DefaultTimeout

	p := &TwitterPublisher{
		baseURL:    DefaultBaseURL,
		mode:       mode,
		httpClient: httpClient,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Mode returns the configured execution mode.
func (p *TwitterPublisher) Mode() interfaces.PublishMode {
	return p.mode
}

// Publish sends the text and returns the platform message id. Failures are
// typed and never retried here; the caller logs and moves on.
func (p *TwitterPublisher) Publish(ctx context.Context, text string) (string, error) {
	if p.mode == interfaces.PublishModeDryRun {
		id := common.NewPostID()
		p.logger.Info().
			Str("mode", "dryrun").
			Int("length", len(text)).
			Str("content", text).
			Msg("Dry-run publish")
		return id, nil
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to encode tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(resp.Body)
		return "", &AuthError{StatusCode: resp.StatusCode, Message: string(body)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &RateLimitedError{RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return "", &NetworkError{Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &NetworkError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if result.Data.ID == "" {
		return "", &NetworkError{Err: fmt.Errorf("response missing tweet id")}
	}

	p.logger.Info().
		Str("tweet_id", result.Data.ID).
		Int("length", len(text)).
		Msg("Post published")

	return result.Data.ID, nil
}

// parseRetryAfter reads the reset header, defaulting to one minute.
func parseRetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Minute
}
