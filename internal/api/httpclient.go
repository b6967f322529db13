package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kinetta/takeoffctl/internal/log"
)

const (
	redactedValue   = "[REDACTED]"
	logTypeRequest  = "request"
	logTypeResponse = "response"

	maxLoggedBody = 4096
)

// LoggingHTTPClient wraps an HTTP client to add debug and trace logging.
// Debug level records the request line and redacted headers; trace level
// additionally records redacted bodies. Every request/response pair shares a
// generated request id.
type LoggingHTTPClient struct {
	wrapped *http.Client
	logger  *slog.Logger
}

// NewLoggingHTTPClient creates a new logging HTTP client.
func NewLoggingHTTPClient(logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{
		wrapped: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// NewLoggingHTTPClientWithClient wraps an existing HTTP client.
func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{
		wrapped: client,
		logger:  logger,
	}
}

// Do implements the HTTPClient interface with logging.
func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}

	requestID := uuid.NewString()
	traceEnabled := c.logger.Enabled(ctx, log.LevelTrace)

	c.logRequest(req, requestID, traceEnabled)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request failed",
			slog.String("log_type", logTypeResponse),
			slog.String("request_id", requestID),
			slog.String("method", req.Method),
			slog.String("route", req.URL.Path),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logResponse(resp, requestID, duration, traceEnabled)
	return resp, nil
}

func (c *LoggingHTTPClient) logRequest(req *http.Request, requestID string, traceEnabled bool) {
	attrs := []slog.Attr{
		slog.String("log_type", logTypeRequest),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("route", req.URL.Path),
		slog.String("host", req.URL.Host),
		slog.Any("query_params", redactQuery(req.URL.Query())),
		slog.Any("request_headers", redactHeaders(req.Header)),
	}

	if traceEnabled && req.Body != nil {
		if body, ok := peekRequestBody(req); ok && len(body) > 0 {
			attrs = append(attrs, slog.String("request_body", redactBody(body)))
		}
	}

	c.logger.LogAttrs(req.Context(), slog.LevelDebug, "HTTP request", attrs...)
}

func (c *LoggingHTTPClient) logResponse(resp *http.Response, requestID string, duration time.Duration, traceEnabled bool) {
	attrs := []slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.String("status_text", resp.Status),
		slog.Duration("duration", duration),
		slog.Any("response_headers", redactHeaders(resp.Header)),
	}

	if traceEnabled || resp.StatusCode >= 400 {
		if body, ok := peekResponseBody(resp); ok && len(body) > 0 {
			attrs = append(attrs, slog.String("response_body", redactBody(body)))
		}
	}

	c.logger.LogAttrs(resp.Request.Context(), slog.LevelDebug, "HTTP response", attrs...)
}

func sensitiveKey(key string) bool {
	k := strings.ToLower(key)
	switch k {
	case "authorization", "x-api-key", "set-cookie", "cookie", "apikey":
		return true
	}
	return strings.Contains(k, "token") ||
		strings.Contains(k, "secret") ||
		strings.Contains(k, "password") ||
		strings.Contains(k, "api_key")
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if sensitiveKey(k) {
			out[k] = redactedValue
		} else {
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

func redactQuery(q url.Values) map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		if sensitiveKey(k) {
			out[k] = redactedValue
		} else {
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

// redactBody replaces sensitive JSON field values before logging. Bodies
// that are not JSON objects are truncated and logged as-is.
func redactBody(body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(string(body))
	}

	redacted, err := json.Marshal(redactValue(payload))
	if err != nil {
		return truncate(string(body))
	}
	return truncate(string(redacted))
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if sensitiveKey(k) {
				out[k] = redactedValue
			} else {
				out[k] = redactValue(inner)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = redactValue(inner)
		}
		return out
	default:
		return v
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "... [truncated]"
}

// peekRequestBody reads the request body and restores it for the transport.
func peekRequestBody(req *http.Request) ([]byte, bool) {
	if req.Body == nil {
		return nil, false
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, false
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, true
}

// peekResponseBody reads the response body and restores it for the caller.
func peekResponseBody(resp *http.Response) ([]byte, bool) {
	if resp.Body == nil {
		return nil, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body, true
}
