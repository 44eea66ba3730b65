package publishers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
)

// Kind classifies a room change.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
)

// Event is one observed room change.
type Event struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Room        rooms.Room `json:"room"`
	Fingerprint string     `json:"fingerprint"`
	ObservedAt  time.Time  `json:"observed_at"`
}

// NewEvent stamps a room change with a fresh id and the current time.
func NewEvent(kind Kind, room rooms.Room, fingerprint string) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		Room:        room,
		Fingerprint: fingerprint,
		ObservedAt:  time.Now().UTC(),
	}
}

// MarshalBody is the JSON message body every sink sends.
func (e Event) MarshalBody() ([]byte, error) {
	return json.Marshal(e)
}

func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"room_id":    e.Room.ID,
		"event_kind": string(e.Kind),
	}
	if e.Room.Building != nil {
		attrs["building_id"] = e.Room.Building.ID
	}
	return attrs
}
