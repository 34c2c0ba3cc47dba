/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package source implements the polymorphic, lazily-initialized source
// tree that feeds a station: Silent, LocalFileTrack and PlaylistChildList,
// each capable of producing a restartable sequence of frames.
package source

import (
	"context"

	"github.com/wavecast/wavecast/internal/frame"
)

// PlaylistChild is one node of the source tree. Construction only
// captures parameters; real work (probing a file, listing a directory)
// happens the first time StreamFrames is called. IsFinished does no
// such work.
type PlaylistChild interface {
	// StreamFrames returns a channel of frames (or per-item errors) for
	// one pass over this child. The channel is restartable: calling
	// StreamFrames again after a finished, non-repeating pass yields an
	// immediately-closed channel.
	StreamFrames(ctx context.Context) (<-chan frame.Result, error)

	// IsFinished reports whether this child has completed a
	// non-repeating pass and has nothing further to offer.
	IsFinished() bool
}
