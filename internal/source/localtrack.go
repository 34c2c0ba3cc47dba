/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
	"github.com/wavecast/wavecast/internal/probe"
)

// DefaultChunkSize is the number of payload bytes read per emitted frame.
const DefaultChunkSize = 2097152

// LocalFileTrack is a PlaylistChild backed by a single file resolved
// through a fileprovider.Provider. Probing (ID3 tags, duration, content
// type) is deferred to the first StreamFrames call.
type LocalFileTrack struct {
	path      string
	fp        fileprovider.Provider
	repeat    bool
	chunkSize int
	logger    *logging.Logger

	mu          sync.Mutex
	initialized bool
	initErr     error
	title       string
	artist      string
	contentType string
	bytesPerMs  float64
	played      bool
}

// NewLocalFileTrack creates a LocalFileTrack for path, resolved through fp.
func NewLocalFileTrack(path string, fp fileprovider.Provider, repeat bool, logger *logging.Logger) *LocalFileTrack {
	return &LocalFileTrack{path: path, fp: fp, repeat: repeat, chunkSize: DefaultChunkSize, logger: logger}
}

func (t *LocalFileTrack) ensureInit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return t.initErr
	}
	t.initialized = true

	meta, err := probe.Probe(ctx, t.path, t.fp)
	if err != nil {
		t.initErr = err
		return err
	}

	title, artist := meta.Title, meta.Artist
	if title == "" || artist == "" {
		left, right, hasSplit := splitBasename(t.path)
		if title == "" {
			title = left
		}
		if artist == "" && hasSplit {
			artist = right
		}
	}
	if title == "" {
		title = "Unknown Track"
	}
	if artist == "" {
		artist = "Unknown Artist"
	}

	t.title, t.artist = title, artist
	t.contentType = meta.ContentType
	t.bytesPerMs = meta.BytesPerMs
	return nil
}

// splitBasename derives (title, artist) from a file's basename by
// splitting on the first "-": the left side is the title, the right
// side (if any) the artist. Already-split names (no dash) are idempotent
// under repeated application, since there's nothing left to split.
func splitBasename(path string) (title, artist string, hasSplit bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	idx := strings.Index(base, "-")
	if idx < 0 {
		return strings.TrimSpace(base), "", false
	}
	return strings.TrimSpace(base[:idx]), strings.TrimSpace(base[idx+1:]), true
}

// IsFinished reports whether a non-repeating pass has already played.
func (t *LocalFileTrack) IsFinished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.played && !t.repeat
}

// StreamFrames streams the track's content once (or forever, if repeat
// is set), chunked into DefaultChunkSize-byte frames.
func (t *LocalFileTrack) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	if err := t.ensureInit(ctx); err != nil {
		return nil, err
	}

	t.mu.Lock()
	alreadyDone := t.played && !t.repeat
	t.mu.Unlock()

	out := make(chan frame.Result)
	if alreadyDone {
		close(out)
		return out, nil
	}

	go func() {
		defer close(out)
		for {
			if err := t.streamOnce(ctx, out); err != nil {
				select {
				case out <- frame.Result{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			t.mu.Lock()
			repeat := t.repeat
			if !repeat {
				t.played = true
			}
			t.mu.Unlock()

			if !repeat {
				return
			}
		}
	}()
	return out, nil
}

func (t *LocalFileTrack) streamOnce(ctx context.Context, out chan<- frame.Result) error {
	rc, err := t.fp.Open(ctx, t.path)
	if err != nil {
		return errkind.Wrap(err, errkind.ResourceNotFound, "open track")
	}
	defer rc.Close()

	buf := make([]byte, t.chunkSize)
	wrote := false
	for {
		n, rerr := rc.Read(buf)
		if n > 0 {
			wrote = true
			payload := make([]byte, n)
			copy(payload, buf[:n])
			fr := frame.Meta{
				Payload:     payload,
				DurationMs:  float64(n) / t.bytesPerMs,
				Title:       t.title,
				Artist:      t.artist,
				ContentType: t.contentType,
			}
			select {
			case out <- frame.Result{Frame: fr}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errkind.Wrap(rerr, errkind.IoError, "read track")
		}
	}
	if !wrote {
		return errkind.New(errkind.IoError, "track file is empty")
	}
	return nil
}
