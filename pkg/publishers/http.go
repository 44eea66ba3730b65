package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/campus-oda/oda-rooms/pkg/httpclient"
)

// httpPublisher posts each room event as JSON to a webhook. Routing metadata
// travels in X-Event-* and X-Room-Id headers next to the body.
type httpPublisher struct {
	sink
	method string
	url    string
	client *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)

	return &httpPublisher{
		sink:   newSink(cfg.ID, TypeHTTP, log),
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
	}, nil
}

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"X-Event-Id":   evt.ID,
			"X-Event-Kind": string(evt.Kind),
			"X-Room-Id":    evt.Room.ID,
		}).
		SetBody(evt).
		Execute(h.method, h.url)
	if err != nil {
		return h.report(evt, "post room event", err, nil)
	}
	if resp.IsError() {
		err = fmt.Errorf("status %d: %s", resp.StatusCode(), replySnippet(resp.Body()))
		return h.report(evt, "post room event", err, map[string]any{"status": resp.StatusCode()})
	}
	return h.report(evt, "", nil, map[string]any{"status": resp.StatusCode()})
}
