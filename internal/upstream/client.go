package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxDocumentBytes caps a single downloaded body.
const maxDocumentBytes = 8 << 20

// Client talks to the roadmap graph endpoint, the content listing API and
// the raw content host.
type Client struct {
	graphURL   string
	listingURL string
	rawBaseURL string
	token      string
	httpClient *http.Client
}

// Options configures a Client.
type Options struct {
	GraphURL   string
	ListingURL string
	RawBaseURL string
	Token      string // Optional bearer token for the listing API.
	Timeout    time.Duration
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		graphURL:   opts.GraphURL,
		listingURL: opts.ListingURL,
		rawBaseURL: strings.TrimRight(opts.RawBaseURL, "/"),
		token:      opts.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Entry is one item of the content directory listing.
type Entry struct {
	Name string `json:"name"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Graph returns the raw roadmap graph description.
func (c *Client) Graph(ctx context.Context) ([]byte, error) {
	resp, err := c.get(ctx, c.graphURL, "application/json", false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return data, nil
}

// Listing returns the entries of the content directory.
func (c *Client) Listing(ctx context.Context) ([]Entry, error) {
	resp, err := c.get(ctx, c.listingURL, "application/vnd.github+json", true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return entries, nil
}

// Document returns the raw text of a content document.
func (c *Client) Document(ctx context.Context, name string) (string, error) {
	resp, err := c.get(ctx, c.DocumentURL(name), "text/plain", false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// DocumentURL is the raw content URL for a document identifier.
func (c *Client) DocumentURL(name string) string {
	return c.rawBaseURL + "/" + url.PathEscape(name)
}

// get issues a GET and returns the response only for 2xx statuses.
func (c *Client) get(ctx context.Context, u, accept string, auth bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
