/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package cache implements the on-disk artifact cache remote file
// providers (S3, GCS) use to give probing and streaming random access to
// a local copy of a remote object. Entries are keyed by
// sha256(provider||path) with a JSON ".meta" sidecar recording the
// source ETag, adapted from the teacher's gob-based
// common/datautil.PersistentMap persistence pattern with JSON standing
// in for gob. A periodic sweep prunes sidecars that are corrupt or whose
// payload has vanished; entries have no expiry, and payloads left behind
// by an older ETag are not removed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cron "github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/logging"
)

// Meta is the JSON sidecar persisted next to each cached payload.
type Meta struct {
	Path      string    `json:"path"`
	Provider  string    `json:"provider"`
	ETag      string    `json:"etag"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache is an on-disk content cache deduplicated across concurrent
// fetches of the same object and pruned on a cron schedule.
type Cache struct {
	dir    string
	logger *logging.Logger
	group  singleflight.Group
	cron   *cron.Cron
}

// New creates a Cache rooted at dir, creating it if necessary, and
// starts its hourly prune sweep.
func New(dir string, logger *logging.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errkind.Wrap(err, errkind.IoError, "create cache directory")
	}

	c := &Cache{dir: dir, logger: logger, cron: cron.New()}
	if _, err := c.cron.AddFunc("@hourly", c.prune); err != nil {
		return nil, errkind.Wrap(err, errkind.ConfigError, "schedule cache prune")
	}
	c.cron.Start()
	return c, nil
}

// Close stops the prune scheduler.
func (c *Cache) Close() {
	c.cron.Stop()
}

func (c *Cache) key(provider, path string) string {
	sum := sha256.Sum256([]byte(provider + "|" + path))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) paths(provider, path, etag string) (payloadPath, metaPath string) {
	etagSum := sha256.Sum256([]byte(etag))
	payloadPath = filepath.Join(c.dir, c.key(provider, path)+"."+hex.EncodeToString(etagSum[:8]))
	return payloadPath, payloadPath + ".meta"
}

// Fetch returns a local path holding path's contents as reported by
// etag, downloading via fetch only on a cache miss. Concurrent Fetch
// calls for the same (provider, path, etag) collapse into a single
// download.
func (c *Cache) Fetch(ctx context.Context, provider, path, etag string, fetch func(ctx context.Context) (io.ReadCloser, error)) (string, error) {
	payloadPath, metaPath := c.paths(provider, path, etag)

	if m, err := c.readMeta(metaPath); err == nil && m.ETag == etag {
		if _, statErr := os.Stat(payloadPath); statErr == nil {
			return payloadPath, nil
		}
	}

	v, err, _ := c.group.Do(payloadPath, func() (interface{}, error) {
		rc, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		tmp := payloadPath + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.IoError, "create cache payload")
		}
		size, copyErr := io.Copy(f, rc)
		closeErr := f.Close()
		if copyErr != nil {
			os.Remove(tmp)
			return nil, errkind.Wrap(copyErr, errkind.IoError, "write cache payload")
		}
		if closeErr != nil {
			os.Remove(tmp)
			return nil, errkind.Wrap(closeErr, errkind.IoError, "close cache payload")
		}
		if err := os.Rename(tmp, payloadPath); err != nil {
			return nil, errkind.Wrap(err, errkind.IoError, "rename cache payload")
		}

		if err := c.writeMeta(metaPath, Meta{
			Path: path, Provider: provider, ETag: etag, Size: size, FetchedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
		return payloadPath, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) writeMeta(path string, m Meta) error {
	b, err := json.Marshal(m)
	if err != nil {
		return errkind.Wrap(err, errkind.CacheCorruption, "marshal cache meta")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errkind.Wrap(err, errkind.IoError, "write cache meta")
	}
	return nil
}

func (c *Cache) readMeta(path string) (Meta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, errkind.Wrap(err, errkind.CacheCorruption, "unmarshal cache meta")
	}
	return m, nil
}

// prune removes sidecars whose JSON is corrupt or whose payload has
// vanished, and their orphaned payloads in turn.
func (c *Cache) prune() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Error("cache prune: readdir failed", "err", err)
		return
	}

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".meta") {
			continue
		}
		metaPath := filepath.Join(c.dir, e.Name())
		payloadPath := strings.TrimSuffix(metaPath, ".meta")

		if _, err := c.readMeta(metaPath); err != nil {
			c.logger.Warn("cache prune: removing corrupt sidecar", "path", metaPath)
			os.Remove(metaPath)
			os.Remove(payloadPath)
			continue
		}
		if _, err := os.Stat(payloadPath); err != nil {
			c.logger.Warn("cache prune: removing orphaned sidecar", "path", metaPath)
			os.Remove(metaPath)
		}
	}
}
