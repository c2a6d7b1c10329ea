// Package platform is a thin HTTP client for the hosted backend which owns
// all persistence, authentication and authorization (PostgREST data API plus
// GoTrue auth API, row-level security enforced server-side).
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL string // without trailing slash
	apiKey  string // anon key or, server-only, the service-role key
	token   string // bearer token, defaults to apiKey
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		token:   apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy of the client whose requests carry the given bearer
// token, so the backend applies the row-level security of that user.
func (c *Client) WithToken(token string) *Client {
	var clone = *c
	clone.token = token
	return &clone
}

// From starts a query against one table of the data API.
func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: make(url.Values),
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, header http.Header, body interface{}) (*http.Response, error) {

	var u = c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, readError(resp)
	}

	return resp, nil
}

// decode reads the whole body into dest and closes it.
func decode(resp *http.Response, dest interface{}) error {
	defer resp.Body.Close()
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
