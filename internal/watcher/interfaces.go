package watcher

import (
	"context"

	"github.com/campus-oda/oda-rooms/pkg/oda"
	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
	"github.com/campus-oda/oda-rooms/pkg/publishers"
)

// RoomLister lists rooms from the API.
type RoomLister interface {
	List(ctx context.Context, params oda.Params) ([]rooms.Room, error)
}

// EventPublisher hands a room change event to every sink and reports each
// sink's outcome.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) publishers.Delivery
}

// Snapshots remembers the last published fingerprint per room.
type Snapshots interface {
	Fingerprint(id string) (string, bool, error)
	Remember(id, fp string) error
}
