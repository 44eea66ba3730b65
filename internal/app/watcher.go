package app

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-oda/oda-rooms/internal/config"
	"github.com/campus-oda/oda-rooms/internal/logger"
	"github.com/campus-oda/oda-rooms/internal/storage"
	"github.com/campus-oda/oda-rooms/internal/watcher"
	"github.com/campus-oda/oda-rooms/pkg/httpclient"
	"github.com/campus-oda/oda-rooms/pkg/oda"
	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
	"github.com/campus-oda/oda-rooms/pkg/publishers"
)

// Watcher represents the room watcher runtime. It owns the poll loop, the
// publisher fanout and the snapshot store, and releases both on exit.
type Watcher struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *watcher.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewWatcher builds a watcher runtime from config and the publishers file.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	params, err := oda.ParseParams(cfg.WatchParams)
	if err != nil {
		return nil, fmt.Errorf("parse watch params: %w", err)
	}

	hc := httpclient.New(httpclient.Options{
		Timeout:     cfg.HTTPTimeout,
		UserAgent:   cfg.UserAgent,
		TokenSource: httpclient.TokenSource(ctx, cfg.Auth()),
	})
	client, err := rooms.New(cfg.BaseURL, hc, log)
	if err != nil {
		return nil, fmt.Errorf("init rooms client: %w", err)
	}

	sinks := publishers.DefaultSinks()
	pubCfgs, err := publishers.Load(cfg.PublishersFile, sinks)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabledPublishers := publishers.Enabled(pubCfgs)
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}

	pubClients, err := sinks.Build(ctx, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Watcher{
		cfg:      cfg,
		fanout:   fanout,
		service:  watcher.NewService(client, fanout, store, params, log),
		interval: cfg.WatchInterval,
		log:      log,
		store:    store,
	}, nil
}

// Run polls once immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"base_url":         w.cfg.BaseURL,
		"watch_params":     w.cfg.WatchParams,
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.interval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	stats, err := w.service.Poll(ctx)
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"listed":     stats.Listed,
		"created":    stats.Created,
		"updated":    stats.Updated,
		"partial":    stats.Partial,
		"failed":     stats.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

func (w *Watcher) close() {
	if w.fanout != nil {
		if err := w.fanout.Close(); err != nil {
			w.log.ErrorObj("publisher close failed", "error", err)
		}
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
}
