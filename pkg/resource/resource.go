// Package resource implements a typed client for a REST resource collection:
// paginated listing, single fetch, metadata, create, update and delete.
// Every failure is normalized into a *RequestError carrying one
// human-readable message.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-projects-client/pkg/httpclient"
)

const contentTypeJSON = "application/json"

// Config wires a Client.
type Config struct {
	// Name identifies the resource in logs and change records.
	Name      string
	Endpoints Endpoints
	HTTP      httpclient.Client
	Logger    Logger
	// OnChange, if set, is called after the server accepts a create, update or delete.
	OnChange func(ctx context.Context, change Change)
}

// Client performs CRUD calls for records of type T whose status labels are of type S.
// It holds no mutable state and is safe for concurrent use.
type Client[T Identifiable, S any] struct {
	name      string
	endpoints Endpoints
	http      httpclient.Client
	log       Logger
	onChange  func(ctx context.Context, change Change)
}

// New validates cfg and builds a Client.
func New[T Identifiable, S any](cfg Config) (*Client[T, S], error) {
	if err := cfg.Endpoints.validate(); err != nil {
		return nil, fmt.Errorf("resource %q: %w", cfg.Name, err)
	}
	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.NewRestyClient(0)
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "resource"
	}
	return &Client[T, S]{
		name:      name,
		endpoints: cfg.Endpoints,
		http:      cfg.HTTP,
		log:       ensureLogger(cfg.Logger),
		onChange:  cfg.OnChange,
	}, nil
}

// Endpoints returns the resolved URLs the client talks to.
func (c *Client[T, S]) Endpoints() Endpoints { return c.endpoints }

// ListByPage fetches one page of the collection.
func (c *Client[T, S]) ListByPage(ctx context.Context, page, perPage int) (Page[T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))

	var env listEnvelope[T]
	req := httpclient.Request{Method: http.MethodGet, URL: c.endpoints.Collection, Query: query}
	if err := c.call(ctx, "listByPage", req, &env); err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Result: env.Data, Total: env.Total}, nil
}

// GetOne fetches a single record by id.
func (c *Client[T, S]) GetOne(ctx context.Context, id string) (T, error) {
	var out T
	req := httpclient.Request{Method: http.MethodGet, URL: c.endpoints.itemURL(id)}
	if err := c.call(ctx, "getOne", req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// GetMeta fetches the aggregate metadata of the collection.
func (c *Client[T, S]) GetMeta(ctx context.Context) (Meta[S], error) {
	var meta Meta[S]
	req := httpclient.Request{Method: http.MethodGet, URL: c.endpoints.Meta}
	if err := c.call(ctx, "getMeta", req, &meta); err != nil {
		return Meta[S]{}, err
	}
	return meta, nil
}

// Statuses lists the status labels known to the server.
func (c *Client[T, S]) Statuses(ctx context.Context) ([]S, error) {
	var out []S
	req := httpclient.Request{Method: http.MethodGet, URL: c.endpoints.Statuses}
	if err := c.call(ctx, "statuses", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the record with the given id. The response body is ignored.
func (c *Client[T, S]) Delete(ctx context.Context, id string) error {
	req := httpclient.Request{
		Method:  http.MethodDelete,
		URL:     c.endpoints.itemURL(id),
		Headers: map[string]string{"Content-Type": contentTypeJSON},
	}
	if err := c.call(ctx, "delete", req, nil); err != nil {
		return err
	}
	c.notify(ctx, Change{Resource: c.name, Action: ActionDelete, ID: id})
	return nil
}

// Create posts {"name": name} and returns the record found in the response's data field.
func (c *Client[T, S]) Create(ctx context.Context, name string) (T, error) {
	var zero T
	body, err := json.Marshal(createRequest{Name: name})
	if err != nil {
		return zero, c.fail("create", http.MethodPost, c.endpoints.createURL(), nil, encodeFailure(err))
	}

	var env dataEnvelope[T]
	req := httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.endpoints.createURL(),
		Headers: map[string]string{"Content-Type": contentTypeJSON},
		Body:    body,
	}
	if err := c.call(ctx, "create", req, &env); err != nil {
		return zero, err
	}
	c.notify(ctx, Change{Resource: c.name, Action: ActionCreate, ID: env.Data.ResourceID(), Payload: env.Data})
	return env.Data, nil
}

// Update replaces the record addressed by item.ResourceID() with item and
// returns the status object reported by the server.
func (c *Client[T, S]) Update(ctx context.Context, item T) (OperationResult, error) {
	id := item.ResourceID()
	target := c.endpoints.itemURL(id)

	body, err := json.Marshal(item)
	if err != nil {
		return OperationResult{}, c.fail("update", http.MethodPut, target, nil, encodeFailure(err))
	}

	var result OperationResult
	req := httpclient.Request{
		Method:  http.MethodPut,
		URL:     target,
		Headers: map[string]string{"Content-Type": contentTypeJSON},
		Body:    body,
	}
	if err := c.call(ctx, "update", req, &result); err != nil {
		return OperationResult{}, err
	}
	c.notify(ctx, Change{Resource: c.name, Action: ActionUpdate, ID: id, Payload: item})
	return result, nil
}

// call issues req and decodes a 2xx body into out (skipped when out is nil).
func (c *Client[T, S]) call(ctx context.Context, op string, req httpclient.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return c.fail(op, req.Method, req.URL, nil, &NetworkError{Err: err})
	}

	code := resp.StatusCode()
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return c.fail(op, req.Method, req.URL, resp, statusFailure(resp))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return c.fail(op, req.Method, req.URL, resp, &ApplicationError{
				Code:    code,
				Message: fmt.Sprintf("decode %s response: %v", op, err),
				Err:     err,
			})
		}
	}

	c.log.DebugObj("resource request completed", "request_result", map[string]any{
		"resource":    c.name,
		"op":          op,
		"method":      req.Method,
		"url":         req.URL,
		"status_code": code,
	})
	return nil
}

// fail logs the original failure once and returns the normalized error.
func (c *Client[T, S]) fail(op, method, target string, resp httpclient.Response, cause error) error {
	fields := map[string]any{
		"resource": c.name,
		"op":       op,
		"method":   method,
		"url":      target,
		"error":    cause.Error(),
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode()
		fields["response_body"] = bodySummary(resp.Body())
	}
	c.log.ErrorObj("resource request failed", "request_error", fields)

	return &RequestError{Op: op, Message: Describe(cause), Err: cause}
}

func (c *Client[T, S]) notify(ctx context.Context, change Change) {
	if c.onChange == nil {
		return
	}
	c.onChange(ctx, change)
}

// statusFailure classifies a non-2xx response: a {"message": ...} body is an
// application error, anything else a bare status error.
func statusFailure(resp httpclient.Response) error {
	var body messageBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return &ApplicationError{Code: resp.StatusCode(), Message: body.Message}
	}
	return &StatusError{Code: resp.StatusCode(), Text: resp.StatusText()}
}

func encodeFailure(err error) error {
	return &ApplicationError{Message: fmt.Sprintf("encode request body: %v", err), Err: err}
}
