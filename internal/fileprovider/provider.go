/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package fileprovider defines the FileProvider collaborator interface
// the source tree uses to read tracks and list directories, independent
// of where the bytes actually live (local disk, S3, GCS).
package fileprovider

import (
	"context"
	"io"
	"time"
)

// Metadata is what a provider can tell us about a path without reading
// its contents.
type Metadata struct {
	Size         int64
	LastModified time.Time
	ETag         string
}

// Provider resolves a path to bytes, metadata, and directory listings.
type Provider interface {
	// Open returns a readable stream of path's contents.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns path's metadata without reading its contents.
	Stat(ctx context.Context, path string) (Metadata, error)

	// List returns a lazy sequence of paths under dir. When recursive is
	// false, only direct children are returned.
	List(ctx context.Context, dir string, recursive bool) (<-chan string, error)

	// LocalCachePath resolves path to a local filesystem path suitable
	// for tools (ID3/duration probing) that need random access, fetching
	// and caching remote content as needed.
	LocalCachePath(ctx context.Context, path string) (string, error)
}
