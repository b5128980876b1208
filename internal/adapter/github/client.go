package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
)

const (
	acceptHeader           = "application/vnd.github+json"
	defaultMaxResponseSize = 1024 * 1024 * 30
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Response is a successful api response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final request url, including query.
	URL string
}

// Client returns details about github repositories.
// This struct is an adapter for app.GithubClient.
type Client struct {
	doer      HTTPDoer
	address   string
	authToken string
	l         logrus.FieldLogger

	maxResponseSize int
}

var _ app.GithubClient = &Client{}

// NewClient creates new github client.
// authToken is optional, requests are unauthenticated without it.
func NewClient(doer HTTPDoer, address string, authToken string, l logrus.FieldLogger) *Client {
	return &Client{
		doer:            doer,
		address:         address,
		authToken:       authToken,
		l:               l,
		maxResponseSize: defaultMaxResponseSize,
	}
}

// Execute makes api request.
//
// path is either relative to client address or an absolute url.
// query is merged into path's query. body, if not nil, is sent as json.
// Responses with status >= 400 are returned as *app.HTTPError.
func (c *Client) Execute(ctx context.Context, method string, path string, query url.Values, body interface{}) (*Response, error) {
	u, err := c.resolveURL(path, query)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	finalURL := req.URL.String()
	c.l.Infof("request to %s", finalURL)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doing http request: %w", err)
	}
	// Always drain body before close to allow connection reuse.
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := &app.HTTPError{
			StatusCode:        resp.StatusCode,
			URL:               finalURL,
			RateLimitExceeded: c.checkRateLimitExceeded(resp.Header),
		}
		c.l.Errorf("request failed: %v", httpErr)
		return nil, httpErr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxResponseSize)+1))
	if err != nil {
		return nil, fmt.Errorf("reading http response body: %w", err)
	}
	if len(b) > c.maxResponseSize {
		return nil, fmt.Errorf("response body from %s exceeds %d bytes", finalURL, c.maxResponseSize)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       b,
		URL:        finalURL,
	}, nil
}

func (c *Client) resolveURL(path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}

	u := ref
	if !ref.IsAbs() {
		if u, err = url.Parse(c.address + path); err != nil {
			return nil, err
		}
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}

	return u, nil
}

func (c *Client) checkRateLimitExceeded(h http.Header) bool {
	if s := h.Get("X-RateLimit-Remaining"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil && limit == 0 {
			return true
		}
	}
	return false
}
