package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frankwiles/store-cli/internal/version"
)

// DefaultURL is the storage endpoint used when no URL is configured.
const DefaultURL = "https://api.frankwiles.com/api/storage/create/"

// Client handles API communication with the storage endpoint
type Client struct {
	URL        string
	Token      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for the request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.Logger = logger
	}
}

// NewClient creates a new API client
func NewClient(url string, token string, opts ...Option) *Client {
	c := &Client{
		URL:        url,
		Token:      token,
		HTTPClient: &http.Client{},
		Logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload is the body of a store request.
type Payload struct {
	ProjectSlug string  `json:"project_slug"`
	DataType    *string `json:"data_type"`
	Data        any     `json:"data"`
}

// NewPayload builds a Payload. An empty dataType is sent as null.
func NewPayload(project string, dataType string, data any) *Payload {
	p := &Payload{
		ProjectSlug: project,
		Data:        data,
	}
	if dataType != "" {
		p.DataType = &dataType
	}
	return p
}

// Result describes a successful store request.
type Result struct {
	StatusCode int
	Body       string
	RequestID  string
}

// ShouldPrintBody reports whether the response body carries anything worth
// showing.
func (r *Result) ShouldPrintBody() bool {
	return r.Body != "" && r.Body != "null"
}

// ErrorBody is the shape of an unsuccessful response, when it has one.
type ErrorBody struct {
	Detail  *string `json:"detail"`
	Message *string `json:"message"`
}

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "failed to send request to API: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError means the API answered with a non-2xx status.
type RequestError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *RequestError) Error() string {
	return "API request failed: " + e.Message
}

// Store sends the payload in a single POST. No retry is attempted.
func (c *Client) Store(ctx context.Context, payload *Payload) (*Result, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Request-ID", requestID)

	log := c.Logger.With().Str("request_id", requestID).Logger()
	log.Debug().
		Str("method", req.Method).
		Str("url", c.URL).
		Str("project", payload.ProjectSlug).
		Str("size", humanSize(int64(len(jsonBody)))).
		Msg("sending store request")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, &TransportError{Err: fmt.Errorf("request cancelled: %w", ctx.Err())}
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read response body, treating it as empty")
		respBody = nil
	}
	body := string(respBody)

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("size", humanSize(int64(len(respBody)))).
		Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("body", trimBody(body, 200)).Msg("store request rejected")
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    friendlyMessage(resp.StatusCode, errorMessage(body)),
			Body:       body,
		}
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       body,
		RequestID:  requestID,
	}, nil
}

// errorMessage extracts detail, then message, from an error body and falls
// back to the raw text.
func errorMessage(body string) string {
	errResp, ok := parseErrorBody(body)
	if !ok {
		return body
	}
	if errResp.Detail != nil {
		return *errResp.Detail
	}
	if errResp.Message != nil {
		return *errResp.Message
	}
	return body
}

// parseErrorBody decodes body as a single JSON object. Field names match
// exactly and a repeated detail or message key makes the body unparseable.
func parseErrorBody(body string) (*ErrorBody, bool) {
	dec := json.NewDecoder(strings.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var out ErrorBody
	seen := make(map[string]bool, 2)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}

		var dst **string
		switch key {
		case "detail":
			dst = &out.Detail
		case "message":
			dst = &out.Message
		default:
			continue
		}
		if seen[key] {
			return nil, false
		}
		seen[key] = true

		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, false
		}
	}

	// closing brace, then nothing but whitespace
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}

	return &out, true
}

func friendlyMessage(status int, msg string) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized - check your API token"
	case http.StatusForbidden:
		return "Forbidden - you don't have permission for this project"
	case http.StatusNotFound:
		return "Not found - check the API URL and project slug"
	case http.StatusBadRequest:
		return "Bad request - " + msg
	case http.StatusInternalServerError:
		return "Server error - please try again later"
	default:
		return fmt.Sprintf("HTTP %d - %s", status, msg)
	}
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// trimBody shortens a body for single-line display.
func trimBody(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	return body[:max] + "..."
}
