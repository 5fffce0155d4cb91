// ABOUTME: HTTP fetcher shared by the explorer and search provider clients
// ABOUTME: Normalizes transport failures, non-2xx statuses and oversized bodies into remote errors

package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/remote"
)

// Request describes one HTTP call.
type Request struct {
	Method string
	URL    string
	Body   any // JSON-encoded when non-nil
	Header http.Header
	Op     string // error prefix, e.g. "Error saving article"
}

// Response contains a successful (2xx) response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewHTTPClient returns a client with the given timeout and cookie jar (may be nil).
func NewHTTPClient(timeout time.Duration, jar http.CookieJar) *http.Client {
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}
}

// Do performs req. Any failure is returned as a *remote.Error.
// Non-2xx responses become rejections carrying the server's JSON "message" if present.
func Do(ctx context.Context, client *http.Client, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, remote.Transport(req.Op, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, remote.Transport(req.Op, fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("User-Agent", config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, remote.Transport(req.Op, err)
	}
	defer resp.Body.Close()

	// Read response body with DoS protection
	limitedReader := io.LimitReader(resp.Body, config.MaxResponseSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, remote.Transport(req.Op, fmt.Errorf("failed to read response body: %w", err))
	}
	if int64(len(data)) > config.MaxResponseSize {
		return nil, remote.Parse(req.Op, resp.StatusCode,
			fmt.Errorf("response too large (exceeds %d bytes)", config.MaxResponseSize))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remote.Rejection(req.Op, resp.StatusCode, statusText(resp), serverMessage(data))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// DecodeJSON decodes a response body into v, reporting failures as parse errors.
func DecodeJSON(op string, resp *Response, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return remote.Parse(op, resp.StatusCode, err)
	}
	return nil
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

// serverMessage extracts {"message": "..."} from an error body, if any.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
