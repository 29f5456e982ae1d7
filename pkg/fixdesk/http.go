package fixdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// actorHeader carries the caller identity recorded in the audit log.
const actorHeader = "X-Fixdesk-Actor"

type queryValues url.Values

func (q queryValues) set(key, value string) {
	if value != "" {
		url.Values(q).Set(key, value)
	}
}

func (q queryValues) setInt(key string, value int) {
	url.Values(q).Set(key, strconv.Itoa(value))
}

func (q queryValues) encode(path string) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + url.Values(q).Encode()
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(actorHeader, c.actor)

	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// send executes req after waiting on the rate limiter and maps transport
// failures to ErrServerNotRunning where possible.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// do sends a request with an optional JSON body and decodes the response
// into out when the status matches want.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = c.newJSONRequest(ctx, method, path, body)
	} else {
		req, err = c.newRequest(ctx, method, path, nil)
	}
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// sitePath constructs a URL path with the site prefix.
func (c *Client) sitePath(path string) string {
	return "/v1/sites/" + url.PathEscape(c.site) + path
}

// parseErrorResponse parses an error response from the API and returns the
// appropriate error type.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Code:       ErrorCode(apiErr.Error.Code),
		Message:    apiErr.Error.Message,
		Context:    apiErr.Error.Context,
		Fields:     apiErr.Error.Fields,
	}
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}
