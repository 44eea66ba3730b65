// Package oda holds the pieces shared by every Open Data API resource client:
// endpoint resolution, query rendering, the request/decode pipeline and the
// NetworkError wrapping applied to every failure.
package oda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/campus-oda/oda-rooms/pkg/httpclient"
)

var (
	// ErrUnexpectedStatus is the cause of a NetworkError built from a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrForeignURL rejects absolute locators outside the base endpoint's scheme and host.
	ErrForeignURL = errors.New("resource url is outside the base endpoint")
)

const maxBodySnippet = 512

// Base is the shared helper injected into resource clients.
type Base struct {
	client  httpclient.Client
	baseURL string
	scheme  string
	host    string
	log     Logger
}

// NewBase validates baseURL and returns a helper issuing requests through client.
func NewBase(client httpclient.Client, baseURL string, log Logger) (*Base, error) {
	if client == nil {
		return nil, errors.New("oda: http client must not be nil")
	}
	raw := strings.TrimSpace(baseURL)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("oda: parse base url: %w", err)
	}
	if !isHTTPScheme(u.Scheme) || u.Host == "" {
		return nil, fmt.Errorf("oda: base url %q must be an absolute http(s) url", raw)
	}
	return &Base{
		client:  client,
		baseURL: strings.TrimRight(raw, "/"),
		scheme:  u.Scheme,
		host:    u.Host,
		log:     ensureLogger(log),
	}, nil
}

// ResolvePath turns a resource locator into an absolute URL. Absolute http(s)
// locators are returned unchanged when they share the base URL's scheme and
// host, and rejected with ErrForeignURL otherwise; anything else is joined to
// the base URL.
func (b *Base) ResolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", errors.New("resource path is empty")
	}
	if isAbsolute(p) {
		u, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("parse resource url: %w", err)
		}
		if !strings.EqualFold(u.Scheme, b.scheme) || !strings.EqualFold(u.Host, b.host) {
			return "", fmt.Errorf("%w: %s://%s", ErrForeignURL, u.Scheme, u.Host)
		}
		return p, nil
	}
	return b.baseURL + "/" + strings.TrimLeft(p, "/"), nil
}

// WithQuery appends the encoded params to u. No params leaves u untouched.
func WithQuery(u string, params Params) string {
	q := params.Encode()
	if q == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + q
	}
	return u + "?" + q
}

// Payload is the body of a successful response together with where it came from.
type Payload struct {
	URL        string
	StatusCode int
	Body       []byte
}

// GetJSON issues a GET for path with params and returns the payload of a 2xx response.
func (b *Base) GetJSON(ctx context.Context, path string, params Params) (Payload, error) {
	resolved, err := b.ResolvePath(path)
	if err != nil {
		return Payload{}, &NetworkError{URL: path, Message: "invalid resource path", Cause: err}
	}
	full := WithQuery(resolved, params)

	b.log.DebugObj("oda request", "oda_request", map[string]any{
		"method": http.MethodGet,
		"url":    full,
	})

	resp, err := b.client.Get(ctx, full, nil)
	if err != nil {
		return Payload{}, &NetworkError{Method: http.MethodGet, URL: full, Message: "request failed", Cause: err}
	}

	body := resp.Body()
	code := resp.StatusCode()
	if code < 200 || code > 299 {
		b.log.WarnObj("oda request rejected", "oda_response", map[string]any{
			"url":    full,
			"status": code,
			"body":   snippet(body),
		})
		return Payload{}, &NetworkError{
			Method:     http.MethodGet,
			URL:        full,
			StatusCode: code,
			Message:    resp.Status(),
			Body:       body,
			Cause:      ErrUnexpectedStatus,
		}
	}
	return Payload{URL: full, StatusCode: code, Body: body}, nil
}

// Fetch runs GetJSON and decodes the body with decode. Decode failures are
// wrapped into a NetworkError like any other failure.
func Fetch[T any](ctx context.Context, b *Base, path string, params Params, decode func([]byte) (T, error)) (T, error) {
	var zero T
	payload, err := b.GetJSON(ctx, path, params)
	if err != nil {
		return zero, err
	}
	v, err := decode(payload.Body)
	if err != nil {
		b.log.WarnObj("oda response decode failed", "oda_decode", map[string]any{
			"url":   payload.URL,
			"error": err.Error(),
		})
		return zero, &NetworkError{
			Method:     http.MethodGet,
			URL:        payload.URL,
			StatusCode: payload.StatusCode,
			Message:    "decode response body",
			Body:       payload.Body,
			Cause:      err,
		}
	}
	return v, nil
}

// Wrap converts err into a NetworkError unless it already is one.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return err
	}
	return &NetworkError{Cause: err}
}

func isAbsolute(p string) bool {
	i := strings.Index(p, "://")
	return i > 0 && isHTTPScheme(p[:i])
}

func isHTTPScheme(s string) bool {
	return strings.EqualFold(s, "http") || strings.EqualFold(s, "https")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		return s[:maxBodySnippet] + "..."
	}
	return s
}
