// Package storage keeps the last seen fingerprint of every room so the watcher
// can tell new and changed rooms apart from unchanged ones.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks room fingerprints.
type Store interface {
	Close() error
	// Fingerprint returns the stored fingerprint for a room id, if present and not expired.
	Fingerprint(id string) (string, bool, error)
	// Remember stores fp for id and refreshes its expiry.
	Remember(id, fp string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                             { return nil }
func (noopStore) Fingerprint(string) (string, bool, error) { return "", false, nil }
func (noopStore) Remember(string, string) error            { return nil }
