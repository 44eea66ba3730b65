package publishers

import (
	"fmt"
	"strings"
)

const maxReplySnippet = 256

// sink carries what every publisher shares: its identity and how it reports
// a delivery attempt.
type sink struct {
	id  string
	typ string
	log Logger
}

func newSink(id, typ string, log Logger) sink {
	if log == nil {
		log = nopLogger{}
	}
	return sink{id: id, typ: typ, log: log}
}

func (s sink) ID() string   { return s.id }
func (s sink) Type() string { return s.typ }

// report logs one delivery attempt for evt. A non-nil err is returned wrapped
// with action.
func (s sink) report(evt Event, action string, err error, extra map[string]any) error {
	fields := map[string]any{
		"publisher_id": s.id,
		"event_id":     evt.ID,
		"room_id":      evt.Room.ID,
		"kind":         evt.Kind,
	}
	for k, v := range extra {
		fields[k] = v
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.ErrorObj(s.typ+" delivery failed", "publisher_error", fields)
		return fmt.Errorf("%s: %w", action, err)
	}
	s.log.DebugObj(s.typ+" delivered room event", "publisher_delivery", fields)
	return nil
}

func replySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxReplySnippet {
		return s[:maxReplySnippet] + "..."
	}
	return s
}
