package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/neo4j-contrib/neorest/config"
	"github.com/neo4j-contrib/neorest/types"
)

// HTTPClient is the production Client implementation over net/http.
// It performs no retries; retry policy belongs to the caller.
type HTTPClient struct {
	cfg    config.Config
	hc     *http.Client
	logger *slog.Logger
}

// HTTPClientOption is a functional option for configuring HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.hc = hc
	}
}

// NewHTTPClient creates a new HTTP client for the configured service.
func NewHTTPClient(cfg config.Config, opts ...HTTPClientOption) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &HTTPClient{
		cfg:    cfg,
		hc:     &http.Client{Timeout: cfg.Timeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Post sends a JSON body to the given endpoint.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	url := c.resolve(path)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, types.WrapError(types.TRANSPORT_REQUEST_FAILED,
			"failed to encode request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, types.WrapError(types.TRANSPORT_REQUEST_FAILED,
			"failed to build request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	c.logger.Debug("posting to graph service",
		"url", url,
		"request_id", requestID,
		"bytes", len(payload))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &types.Error{
			Code:      types.TRANSPORT_REQUEST_FAILED,
			Message:   "request failed",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.WrapError(types.TRANSPORT_BAD_RESPONSE,
			"failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := parseServerError(resp.StatusCode, respBody)
		c.logger.Warn("graph service returned error",
			"url", url,
			"request_id", requestID,
			"status", resp.StatusCode,
			"exception", serverErr.Failure.Exception)
		return nil, serverErr
	}

	return &Response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     respBody,
	}, nil
}

// resolve joins a relative path onto the configured base URL. Absolute URIs
// pass through unchanged so back-referenced resource addresses work.
func (c *HTTPClient) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// serverFailurePayload is the wire shape of a service error body. The server
// includes id when it can attribute the failure to one batch job.
type serverFailurePayload struct {
	ID *int `json:"id"`
	Failure
}

func parseServerError(status int, body []byte) *ServerError {
	serverErr := &ServerError{Status: status}

	var payload serverFailurePayload
	if err := json.Unmarshal(body, &payload); err == nil {
		serverErr.JobID = payload.ID
		serverErr.Failure = payload.Failure
	}
	return serverErr
}
