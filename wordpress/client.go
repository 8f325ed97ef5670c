// Package wordpress talks to the WordPress REST API (v2) with HTTP Basic Authentication.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	userAgent = "pressdeck/1.0"
	// maxResponseBytes caps how much of a response body is read into memory
	maxResponseBytes = 4 << 20
)

// Credentials are a WordPress login (password or application password)
type Credentials struct {
	Username string
	Password string
}

// AuthorizationHeader returns the value of the Authorization header for c
func (c Credentials) AuthorizationHeader() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	return "Basic " + token
}

type Client struct {
	httpClient *http.Client
}

// NewClient returns a client whose requests time out after timeout
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP wraps an existing http.Client
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Endpoint joins a site's REST API base URL with a wp/v2 resource path.
// "https://x/wp-json/" + "posts" gives "https://x/wp-json/wp/v2/posts".
func Endpoint(apiURL, resource string) string {
	return strings.TrimRight(apiURL, "/") + "/wp/v2/" + strings.TrimLeft(resource, "/")
}

// response is a fully read WordPress answer
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r response) decode(v any) error {
	return json.Unmarshal(r.body, v)
}

// remoteError is the error document WordPress (and Basic Auth plugins) return
type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    struct {
		Status int   `json:"status"`
		TermID int64 `json:"term_id"`
	} `json:"data"`
}

func (r response) remoteError() (remoteError, bool) {
	var e remoteError
	if err := json.Unmarshal(r.body, &e); err != nil {
		return e, false
	}
	return e, e.Code != "" || e.Error != ""
}

// do sends one request. It never retries.
func (c *Client) do(ctx context.Context, method, url string, creds Credentials, contentType string, body []byte, headers map[string]string) (response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", creds.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("url", url).Msg("WordPress request failed")
		return response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("WordPress request")

	return response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, creds Credentials) (response, error) {
	return c.do(ctx, http.MethodGet, url, creds, "", nil, nil)
}

func (c *Client) postJSON(ctx context.Context, url string, creds Credentials, payload any) (response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, creds, "application/json", body, nil)
}
