package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.exchangeratesapi.io"

	maxBodyBytes = 4 << 20
)

// HTTPDoer is the transport used by RequestBuilder. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestLogger records every provider round-trip. query is the encoded
// request parameters without the API key. status is nil when no response
// was received.
type RequestLogger interface {
	LogRequest(ctx context.Context, path, query string, status *int, dateAsOf *string) error
}

// RequestBuilder issues GET requests against the provider and decodes the body.
// It keeps no state between calls and is safe for concurrent use when its
// HTTPDoer is.
type RequestBuilder struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	logger     logrus.FieldLogger
	requestLog RequestLogger
}

type Option func(*RequestBuilder)

func WithBaseURL(baseURL string) Option {
	return func(b *RequestBuilder) { b.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithAPIKey sends key as the access_key query parameter.
func WithAPIKey(key string) Option {
	return func(b *RequestBuilder) { b.apiKey = strings.TrimSpace(key) }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(b *RequestBuilder) { b.logger = l }
}

func WithRequestLogger(l RequestLogger) Option {
	return func(b *RequestBuilder) { b.requestLog = l }
}

// NewRequestBuilder uses httpClient as transport, or a plain client with a
// 20s timeout when it is nil.
func NewRequestBuilder(httpClient HTTPDoer, opts ...Option) *RequestBuilder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	b := &RequestBuilder{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MakeRequest sends exactly one GET to baseURL+path with params and returns
// the decoded body. Transport failures come back as *ProviderUnavailableError,
// non-2xx statuses and undecodable bodies as *ProviderResponseError.
func (b *RequestBuilder) MakeRequest(ctx context.Context, path string, params url.Values) (*ProviderResponse, error) {
	u, err := url.Parse(b.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if b.apiKey != "" {
		q.Set("access_key", b.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log := b.logger.WithFields(logrus.Fields{"path": path, "query": params.Encode()})
	started := time.Now()

	resp, err := b.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("provider request failed")
		b.logRequest(ctx, path, nil, params)
		return nil, &ProviderUnavailableError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		b.logRequest(ctx, path, nil, params)
		return nil, &ProviderUnavailableError{Path: path, Err: fmt.Errorf("read response body: %w", err)}
	}

	status := resp.StatusCode
	log.WithFields(logrus.Fields{"status": status, "duration": time.Since(started)}).Debug("provider request")
	b.logRequest(ctx, path, &status, params)

	if status < 200 || status >= 300 {
		return nil, &ProviderResponseError{StatusCode: status, Body: string(body)}
	}

	var out ProviderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ProviderResponseError{StatusCode: status, Body: string(body), Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return &out, nil
}

func (b *RequestBuilder) logRequest(ctx context.Context, path string, status *int, params url.Values) {
	if b.requestLog == nil {
		return
	}

	var dateAsOf *string
	if d, err := ParseDate(strings.TrimPrefix(path, "/")); err == nil {
		s := d.String()
		dateAsOf = &s
	} else if start := params.Get("start_at"); start != "" {
		dateAsOf = &start
	}

	if err := b.requestLog.LogRequest(context.WithoutCancel(ctx), path, params.Encode(), status, dateAsOf); err != nil {
		b.logger.WithError(err).WithField("path", path).Warn("request log failed")
	}
}
