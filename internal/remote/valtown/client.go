// Package valtown is the HTTP implementation of remote.Facade against Val
// Town's hosted API, grounded on the teacher's internal/remote/github
// client (bearer-token oauth2 transport + retryable GETs) but rebuilt
// against Val Town's endpoints instead of GitHub's.
package valtown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/valtown/vt/internal/logging"
	"github.com/valtown/vt/internal/remote"
)

const defaultBaseURL = "https://api.val.town/v1"

// Client is the net/http-backed implementation of remote.Facade.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *retryablehttp.Client
}

// New creates a Client authenticated with apiKey (the VAL_TOWN_API_KEY
// bearer token, per spec.md §6).
func New(apiKey string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	oauthClient := oauth2.NewClient(context.Background(), src)

	retry := retryablehttp.NewClient()
	retry.Logger = nil
	retry.RetryMax = 3
	retry.HTTPClient = oauthClient

	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: oauthClient,
		retry:      retry,
	}
}

// idempotentGet performs a GET through the retrying transport, since GETs
// are safe to retry; spec.md §1 says "retries are per-call, not
// persistent" — this is exactly that: no retry state survives the call.
func (c *Client) idempotentGet(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	logging.LogAPICall(http.MethodGet, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// mutate performs a non-idempotent call (POST/PATCH/DELETE) through the
// plain (non-retrying) client, per spec.md's "per-call, not persistent"
// retry policy: only GETs are safe to retry automatically.
func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(b)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	logging.LogAPICall(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

func apiErr(status int, body []byte) error {
	msg := string(body)
	var decoded struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
		msg = decoded.Error
	}
	return remote.ClassifyValTownError(status, fmt.Errorf("%s", msg))
}

var _ remote.Facade = (*Client)(nil)
