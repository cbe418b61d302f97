package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrEmptyInput = errors.New("missing texts to embed")

// StatusError is returned when a backend answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

// httpClient is the JSON-over-HTTP plumbing shared by the TEI and Ollama
// clients.
type httpClient struct {
	base    url.URL
	http    *http.Client
	timeout time.Duration
}

type ClientOption func(client *httpClient)

func WithHttpClient(c *http.Client) ClientOption {
	return func(client *httpClient) {
		client.http = c
	}
}

// WithTimeout sets the request timeout on a copy of the client in use.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(client *httpClient) {
		client.timeout = timeout
	}
}

func newHTTPClient(baseUrl string, opts ...ClientOption) (*httpClient, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseUrl)
	}

	client := &httpClient{
		base: *base,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.http == nil {
		client.http = &http.Client{Timeout: defaultTimeout}
	}
	if client.timeout > 0 {
		hc := *client.http
		hc.Timeout = client.timeout
		client.http = &hc
	}

	return client, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		reqDataBytes, err := json.Marshal(reqData)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(reqDataBytes)
	}

	reqURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
