package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// httpClient allows http.Client to be mocked for tests
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Generic REST restClient
type restClient struct {
	client  httpClient
	baseURL *url.URL
}

// StatusError is returned when MailHog responds with a non-2xx status.
type StatusError struct {
	Method     string
	URI        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s for %q, unexpected %v: %s", e.Method, e.URI, e.StatusCode, e.Status)
}

// do performs an HTTP request with this client and returns the response.
func (c *restClient) do(
	ctx context.Context, method, uri string, query url.Values, accept string,
) (*http.Response, error) {
	url := c.baseURL.JoinPath(uri)
	if len(query) > 0 {
		url.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s for %q: %w", method, url, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s for %q: %w", method, url, err)
	}
	return resp, nil
}

// doExpect performs an HTTP request and discards the response body, returning an error unless
// the response status is 2xx.
func (c *restClient) doExpect(ctx context.Context, method, uri string) error {
	resp, err := c.do(ctx, method, uri, nil, "")
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return checkStatus(method, uri, resp)
}

// doText performs an HTTP request and returns the raw response body.
func (c *restClient) doText(ctx context.Context, method, uri, accept string) ([]byte, error) {
	resp, err := c.do(ctx, method, uri, nil, accept)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(method, uri, resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s for %q, reading body: %w", method, uri, err)
	}
	return body, nil
}

// doJSON performs an HTTP request with this client and marshalls the JSON response into v.
func (c *restClient) doJSON(
	ctx context.Context, method string, uri string, query url.Values, v interface{},
) error {
	resp, err := c.do(ctx, method, uri, query, "application/json")
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(method, uri, resp); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	// Decode response body
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s for %q, decoding JSON: %w", method, uri, err)
	}
	return nil
}

func checkStatus(method, uri string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{
		Method:     method,
		URI:        uri,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
}
