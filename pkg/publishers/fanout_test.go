package publishers

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
)

type stubPublisher struct {
	id    string
	typ   string
	err   error
	calls atomic.Int32
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls.Add(1)
	return s.err
}

func TestFanoutPublishReportsEverySink(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeSQS, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, bad})

	d := fanout.Publish(context.Background(), NewEvent(KindCreated, rooms.Room{ID: "r1"}, "fp"))
	if len(d) != 2 || d[0].PublisherID != "ok" || d[1].PublisherID != "bad" {
		t.Fatalf("outcomes not in publisher order: %+v", d)
	}
	if d.Delivered() != 1 {
		t.Fatalf("Delivered() = %d", d.Delivered())
	}
	if failed := d.Failed(); len(failed) != 1 || failed[0] != "sqs/bad" {
		t.Fatalf("Failed() = %v", failed)
	}
	if err := d.Err(); err == nil || !strings.Contains(err.Error(), "sqs publisher[bad]") {
		t.Fatalf("Err() = %v", err)
	}
	if ok.calls.Load() != 1 || bad.calls.Load() != 1 {
		t.Fatalf("each sink should be called once")
	}
}

func TestFanoutWithoutPublishers(t *testing.T) {
	var f *Fanout
	d := f.Publish(context.Background(), Event{})
	if d.Delivered() != 0 || d.Err() != nil || f.Size() != 0 {
		t.Fatalf("nil fanout should deliver nothing")
	}
}

type closingPublisher struct {
	stubPublisher
	closed bool
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	closer := &closingPublisher{stubPublisher: stubPublisher{id: "gcp", typ: TypePubSub}}
	fanout := NewFanout([]Publisher{&stubPublisher{id: "ok", typ: TypeHTTP}, nil, closer})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("closer was not closed")
	}
}

func TestSinksBuildDefault(t *testing.T) {
	pubs, err := DefaultSinks().Build(context.Background(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "hook" || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %+v", pubs)
	}
}

func TestSinksBuildClosesEarlierOnFailure(t *testing.T) {
	closer := &closingPublisher{stubPublisher: stubPublisher{id: "first", typ: "a"}}
	sinks := Sinks{
		"a": {Build: func(context.Context, PublisherConfig, Logger) (Publisher, error) { return closer, nil }},
		"b": {Build: func(context.Context, PublisherConfig, Logger) (Publisher, error) { return nil, errors.New("no creds") }},
	}
	_, err := sinks.Build(context.Background(), []PublisherConfig{{ID: "first", Type: "a"}, {ID: "second", Type: "b"}}, nil)
	if err == nil || !strings.Contains(err.Error(), `"second"`) {
		t.Fatalf("err = %v", err)
	}
	if !closer.closed {
		t.Fatalf("earlier publisher should be closed")
	}
}

func TestSinksBuildUnknownType(t *testing.T) {
	if _, err := DefaultSinks().Build(context.Background(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
