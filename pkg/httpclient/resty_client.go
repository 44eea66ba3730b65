package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// Options tunes the resty-backed client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// TokenSource, when set, supplies the Authorization header for every request.
	TokenSource oauth2.TokenSource
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return New(Options{Timeout: timeout})
}

// New creates a RestyClient from the given options.
func New(opts Options) *RestyClient {
	c := newRestyBaseClient(opts.Timeout)
	c.SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.TokenSource != nil {
		c.OnBeforeRequest(bearerMiddleware(opts.TokenSource))
	}
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// bearerMiddleware sets the Authorization header from the token source before each request.
func bearerMiddleware(ts oauth2.TokenSource) resty.RequestMiddleware {
	return func(_ *resty.Client, req *resty.Request) error {
		tok, err := ts.Token()
		if err != nil {
			return fmt.Errorf("obtain access token: %w", err)
		}
		req.SetHeader("Authorization", tok.Type()+" "+tok.AccessToken)
		return nil
	}
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string  { return r.resp.Status() }
