package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-projects-client/pkg/httpclient"
)

// Event headers let webhook receivers route and deduplicate without parsing the body.
const (
	headerEventID     = "X-Event-ID"
	headerEventAction = "X-Event-Action"
	headerResource    = "X-Event-Resource"
)

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	c := cfg.HTTP.normalized()

	client := httpclient.NewRestyHTTPClient(time.Duration(c.TimeoutSeconds) * time.Second)
	if c.Retries > 0 {
		client.SetRetryCount(c.Retries).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return err != nil || resp.StatusCode() >= http.StatusInternalServerError
			})
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  c.Method,
		url:     c.URL,
		headers: c.Headers,
		client:  client,
		log:     orDiscard(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends evt as the JSON request body.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerEventID, evt.ID).
		SetHeader(headerEventAction, evt.Action).
		SetHeader(headerResource, evt.Resource).
		SetBody(evt).
		Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}

	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"status_code":  resp.StatusCode(),
		"attempts":     resp.Request.Attempt,
	})
	return nil
}

func snippet(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
