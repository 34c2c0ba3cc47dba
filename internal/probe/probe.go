/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package probe determines a local track's title, artist, content type
// and playback rate (bytes per millisecond): title and artist come from
// its ID3 tags, content type from its extension, and duration from
// walking its MPEG frames.
package probe

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
)

// Metadata is what probing a track yields.
type Metadata struct {
	Title       string
	Artist      string
	ContentType string
	BytesPerMs  float64
}

// Probe resolves path through fp to a local cache file, reads its ID3
// tags if present, estimates duration by walking MPEG frames (ID3 tags
// are not consulted for duration), and combines that with the
// provider's reported size to compute a playback rate in bytes per
// millisecond.
func Probe(ctx context.Context, path string, fp fileprovider.Provider) (Metadata, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	contentType, ok := contentTypeByExt[ext]
	if !ok {
		return Metadata{}, errkind.Newf(errkind.UnsupportedFormat, "unsupported file extension %q", ext)
	}

	cachePath, err := fp.LocalCachePath(ctx, path)
	if err != nil {
		return Metadata{}, errkind.Wrap(err, errkind.ResourceNotFound, "resolve local cache path")
	}

	var title, artist string
	if f, ferr := os.Open(cachePath); ferr == nil {
		if m, terr := tag.ReadFrom(f); terr == nil {
			title = m.Title()
			artist = m.Artist()
		}
		f.Close()
	}

	durationMs, err := estimateMP3DurationMs(cachePath)
	if err != nil {
		return Metadata{}, errkind.Wrap(err, errkind.ProbeFailure, "could not determine track duration")
	}
	if durationMs <= 0 {
		return Metadata{}, errkind.New(errkind.ProbeFailure, "could not determine track duration")
	}

	meta, err := fp.Stat(ctx, path)
	if err != nil {
		return Metadata{}, errkind.Wrap(err, errkind.ResourceNotFound, "stat track")
	}

	return Metadata{
		Title:       title,
		Artist:      artist,
		ContentType: contentType,
		BytesPerMs:  float64(meta.Size+1) / durationMs,
	}, nil
}
