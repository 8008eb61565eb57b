package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
// A zero timeout leaves requests unbounded.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do executes the request with the given method, query, headers and raw body.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if len(in.Query) > 0 {
		req.SetQueryParamsFromValues(in.Query)
	}
	if in.Body != nil {
		req.SetBody(in.Body)
	}

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	resp, err := req.Execute(method, in.URL)
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

func (r *restyResponseAdapter) StatusText() string {
	return reasonPhrase(r.resp.StatusCode(), r.resp.Status())
}

// reasonPhrase strips the numeric prefix from a status line ("404 Not Found")
// and falls back to the canonical text when the server sent none.
func reasonPhrase(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return text
}
