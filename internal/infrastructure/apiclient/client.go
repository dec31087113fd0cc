// Package apiclient is the single request pipeline every call to the
// storefront API goes through. It attaches the bearer token, picks the
// content type from the payload kind, and turns failures into
// *domain.APIError values the front ends can show verbatim.
//
// The pipeline never retries: a failure is surfaced to the caller at once.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/infrastructure/metrics"
)

const (
	DefaultTimeout = 60 * time.Second

	headerRequestID = "X-Request-ID"
	mimeJSON        = "application/json"
)

// InvalidationFunc is called when the server rejects the session. It gets
// the token the rejected request carried ("" if none).
type InvalidationFunc func(ctx context.Context, rejectedToken string)

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds each request unless the request sets its own.
	Timeout   time.Duration
	UserAgent string
	// Tokens supplies the bearer token; nil means requests go out anonymous.
	Tokens ports.TokenSource
	// OnSessionInvalidated is invoked on every 401 before the error is returned.
	OnSessionInvalidated InvalidationFunc
	Logger               zerolog.Logger
}

// Client implements ports.APIClient over net/http.
type Client struct {
	base         *url.URL
	http         *http.Client
	timeout      time.Duration
	userAgent    string
	tokens       ports.TokenSource
	onInvalidate InvalidationFunc
	log          zerolog.Logger
}

var _ ports.APIClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url must be http or https, got %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		base:         base,
		http:         hc,
		timeout:      timeout,
		userAgent:    opts.UserAgent,
		tokens:       opts.Tokens,
		onInvalidate: opts.OnSessionInvalidated,
		log:          opts.Logger.With().Str("component", "apiclient").Logger(),
	}, nil
}

// Do sends req and returns the response body unchanged on 2xx.
func (c *Client) Do(ctx context.Context, req ports.APIRequest) (*ports.APIResponse, error) {
	start := time.Now()
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, token, err := c.build(reqCtx, method, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}

	log := c.log.With().
		Str("method", method).
		Str("path", req.Path).
		Str("request_id", httpReq.Header.Get(headerRequestID)).
		Logger()
	log.Debug().
		Bool("has_token", token != "").
		Str("content_type", contentTypeLabel(httpReq.Header)).
		Msg("request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.transportFailure(ctx, log, method, start, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportFailure(ctx, log, method, start, err)
	}
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.RequestsTotal.WithLabelValues(method, "ok").Inc()
		log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("response")
		return &ports.APIResponse{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}

	apiErr := statusError(resp.StatusCode, body, token != "")
	metrics.RequestsTotal.WithLabelValues(method, outcomeLabel(apiErr.Kind)).Inc()
	log.Warn().Int("status", resp.StatusCode).Str("error", apiErr.Message).Msg("request failed")

	if resp.StatusCode == http.StatusUnauthorized && c.onInvalidate != nil {
		c.onInvalidate(ctx, token)
	}
	return nil, apiErr
}

// build assembles the outgoing request and reports the bearer token it
// carries.
func (c *Client) build(ctx context.Context, method string, req ports.APIRequest) (*http.Request, string, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.url(req.Path, req.Query), body.reader)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	if body.length >= 0 {
		httpReq.ContentLength = body.length
	}

	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", mimeJSON)
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	// Binary payloads carry whatever the encoder produced (a multipart
	// boundary) or nothing at all; a caller-supplied value never survives.
	// "Omitting" the multipart content type means leaving it to the encoder,
	// the way browser and mobile HTTP stacks do; without the boundary the
	// server cannot parse the body.
	switch req.Body.(type) {
	case ports.MultipartBody, *ports.MultipartBody, ports.RawBody, *ports.RawBody:
		httpReq.Header.Del("Content-Type")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
	default:
		httpReq.Header.Set("Content-Type", mimeJSON)
	}

	token := bearerFrom(httpReq.Header)
	if token == "" && !req.SkipAuth && c.tokens != nil {
		if t := c.tokens.Token(ctx); t != "" {
			httpReq.Header.Set("Authorization", "Bearer "+t)
			token = t
		}
	}
	return httpReq, token, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// transportFailure maps "no response received". A cancellation by the
// caller is its own outcome and is not logged as a failure.
func (c *Client) transportFailure(parent context.Context, log zerolog.Logger, method string, start time.Time, err error) error {
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if errors.Is(parent.Err(), context.Canceled) {
		metrics.RequestsTotal.WithLabelValues(method, "canceled").Inc()
		log.Debug().Msg("request canceled")
		return &domain.APIError{Message: domain.ErrCanceled.Error(), Kind: domain.ErrCanceled, Cause: err}
	}

	metrics.RequestsTotal.WithLabelValues(method, "connection_error").Inc()
	log.Warn().Err(err).Dur("took", time.Since(start)).Msg("no response received")
	return &domain.APIError{Message: domain.ErrConnection.Error(), Kind: domain.ErrConnection, Cause: err}
}

func bearerFrom(h http.Header) string {
	auth := h.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func contentTypeLabel(h http.Header) string {
	if ct := h.Get("Content-Type"); ct != "" {
		return ct
	}
	return "none"
}
