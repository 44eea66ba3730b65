package watcher

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic change detection
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
)

// Fingerprint hashes the JSON encoding of a room. Field order is fixed by the
// struct, so equal rooms always hash alike.
func Fingerprint(room rooms.Room) (string, error) {
	raw, err := json.Marshal(room)
	if err != nil {
		return "", fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
