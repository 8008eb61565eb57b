package publishers

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  atomic.Int32
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls.Add(1)
	return s.err
}

type closingPublisher struct {
	*stubPublisher
}

func (c closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeSQS, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, bad})

	count, err := fanout.Publish(context.Background(), Event{ID: "e1"})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "sqs publisher[bad]: failed") {
		t.Fatalf("expected labelled aggregated error, got %v", err)
	}
	if ok.calls.Load() != 1 || bad.calls.Load() != 1 {
		t.Fatalf("expected every publisher called once")
	}
}

func TestFanoutEmpty(t *testing.T) {
	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout: got %d, %v", n, err)
	}
	if err := nilFanout.Close(); err != nil {
		t.Fatalf("nil fanout close: %v", err)
	}
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	inner := &stubPublisher{id: "ps", typ: TypePubSub}
	fanout := NewFanout([]Publisher{closingPublisher{inner}, nil, &stubPublisher{id: "h", typ: TypeHTTP}})
	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers dropped, got %d", fanout.Size())
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !inner.closed {
		t.Fatalf("expected closer to be closed")
	}
}

func TestBuildAllWithDefaultBuilders(t *testing.T) {
	pubs, err := DefaultBuilders().BuildAll(context.Background(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := DefaultBuilders().BuildAll(context.Background(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("expected error for unknown publisher type, got %v", err)
	}
}
