// Package api is the HTTP client for the Kinetta admin backend. It exposes
// one service per entity with the getAll/search/create/update/delete
// contract the list views consume.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer abstracts the HTTP client so tests can stub the transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	token   string
	http    Doer
	refresh *RefreshBus
}

// NewClient builds an API client. The token may be empty for anonymous
// access in development setups.
func NewClient(baseURL, token string, doer Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    doer,
		refresh: NewRefreshBus(),
	}
}

// RefreshBus returns the client-wide reload signal bus. Every adapter built
// from the same client shares it, so a product mutation wakes the take-off
// list it belongs to.
func (c *Client) RefreshBus() *RefreshBus { return c.refresh }

// Clientes returns the client entity service.
func (c *Client) Clientes() *ClienteService { return &ClienteService{c: c} }

// Proyectos returns the project entity service.
func (c *Client) Proyectos() *ProyectoService { return &ProyectoService{c: c} }

// Cubicaciones returns the take-off entity service.
func (c *Client) Cubicaciones() *CubicacionService { return &CubicacionService{c: c} }

// Productos returns the take-off line item service.
func (c *Client) Productos() *ProductoService { return &ProductoService{c: c} }

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether the error is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// DuplicateError reports a uniqueness violation, e.g. creating a client
// with an already registered RUT.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("ya existe un registro con %s %s", e.Field, e.Value)
}

// IsDuplicate reports whether the error is a uniqueness violation.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's error text, which arrives as either
// {"message": ...} or {"error": ...}.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
