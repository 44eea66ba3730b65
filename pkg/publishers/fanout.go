package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of handing one event to one sink.
type Outcome struct {
	PublisherID string
	Type        string
	Err         error
}

// Delivery holds the per-sink outcomes of one event, in publisher order.
type Delivery []Outcome

// Delivered counts the sinks that accepted the event.
func (d Delivery) Delivered() int {
	n := 0
	for _, o := range d {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed names the sinks that rejected the event as type/id.
func (d Delivery) Failed() []string {
	var out []string
	for _, o := range d {
		if o.Err != nil {
			out = append(out, o.Type+"/"+o.PublisherID)
		}
	}
	return out
}

// Err joins the sink errors, or returns nil when every sink accepted.
func (d Delivery) Err() error {
	var errs []error
	for _, o := range d {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", o.Type, o.PublisherID, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Fanout hands each event to every publisher concurrently.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil publishers and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp}
}

// Publish sends evt to all publishers and waits for every outcome.
func (f *Fanout) Publish(ctx context.Context, evt Event) Delivery {
	if f == nil || len(f.publishers) == 0 {
		return nil
	}

	out := make(Delivery, len(f.publishers))
	var g errgroup.Group
	for i, p := range f.publishers {
		out[i] = Outcome{PublisherID: p.ID(), Type: p.Type()}
		g.Go(func() error {
			out[i].Err = p.Publish(ctx, evt)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Size returns the number of publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers holding client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.publishers)
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
