// Package watcher polls the rooms endpoint and publishes an event for every
// room that is new or differs from its last published state.
package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-oda/oda-rooms/internal/logger"
	"github.com/campus-oda/oda-rooms/pkg/oda"
	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
	"github.com/campus-oda/oda-rooms/pkg/publishers"
)

// Stats summarizes one poll. Partial counts published changes that at least
// one sink rejected.
type Stats struct {
	Listed    int `json:"listed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Partial   int `json:"partial"`
	Failed    int `json:"failed"`
}

// Service compares listed rooms against stored snapshots.
type Service struct {
	lister    RoomLister
	publisher EventPublisher
	snapshots Snapshots
	params    oda.Params
	log       logger.Logger
}

// NewService wires a watcher. params is the query sent with every poll.
func NewService(lister RoomLister, pub EventPublisher, snapshots Snapshots, params oda.Params, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		lister:    lister,
		publisher: pub,
		snapshots: snapshots,
		params:    params,
		log:       log,
	}
}

// Poll lists rooms once and publishes created/updated events. A room's
// fingerprint is stored only after at least one sink accepted its event, so
// rooms that failed everywhere are retried on the next poll.
func (s *Service) Poll(ctx context.Context) (Stats, error) {
	if s == nil || s.lister == nil || s.publisher == nil || s.snapshots == nil {
		return Stats{}, fmt.Errorf("watcher service is not initialized")
	}

	list, err := s.lister.List(ctx, s.params)
	if err != nil {
		return Stats{}, fmt.Errorf("list rooms: %w", err)
	}

	stats := Stats{Listed: len(list)}
	var errs []error
	for _, room := range list {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := s.process(ctx, room, &stats); err != nil {
			stats.Failed++
			errs = append(errs, err)
			s.log.ErrorObj("room change publish failed", "room_error", map[string]any{
				"room_id": room.ID,
				"error":   err.Error(),
			})
		}
	}

	s.log.InfoObj("rooms polled", "poll_stats", stats)
	return stats, errors.Join(errs...)
}

func (s *Service) process(ctx context.Context, room rooms.Room, stats *Stats) error {
	fp, err := Fingerprint(room)
	if err != nil {
		return err
	}

	prev, found, err := s.snapshots.Fingerprint(room.ID)
	if err != nil {
		s.log.WarnObj("snapshot lookup failed; treating room as new", "snapshot_error", map[string]any{
			"room_id": room.ID,
			"error":   err.Error(),
		})
		found = false
	}

	if found && prev == fp {
		stats.Unchanged++
		if err := s.snapshots.Remember(room.ID, fp); err != nil {
			s.log.WarnObj("snapshot refresh failed", "snapshot_error", map[string]any{
				"room_id": room.ID,
				"error":   err.Error(),
			})
		}
		return nil
	}

	kind := publishers.KindCreated
	if found {
		kind = publishers.KindUpdated
	}

	delivery := s.publisher.Publish(ctx, publishers.NewEvent(kind, room, fp))
	if delivery.Delivered() == 0 {
		err := delivery.Err()
		if err == nil {
			err = errors.New("no publisher accepted the event")
		}
		return fmt.Errorf("publish room %s: %w", room.ID, err)
	}
	if failed := delivery.Failed(); len(failed) > 0 {
		stats.Partial++
		s.log.WarnObj("room change partially published", "room_partial", map[string]any{
			"room_id":      room.ID,
			"delivered":    delivery.Delivered(),
			"failed_sinks": failed,
			"error":        delivery.Err().Error(),
		})
	}

	if kind == publishers.KindCreated {
		stats.Created++
	} else {
		stats.Updated++
	}
	s.log.DebugObj("room change published", "room_change", map[string]any{
		"room_id":   room.ID,
		"room_name": room.DisplayName(),
		"kind":      kind,
	})

	if err := s.snapshots.Remember(room.ID, fp); err != nil {
		return fmt.Errorf("remember room %s: %w", room.ID, err)
	}
	return nil
}
