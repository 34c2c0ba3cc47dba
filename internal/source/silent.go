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

	"github.com/wavecast/wavecast/internal/frame"
)

// silentFrameMs is the duration each emitted silent frame represents.
const silentFrameMs = 1000

// silentPayload is a fixed-size placeholder audio payload standing in
// for the embedded one-second silent MP3 frame of the original
// implementation: this tree has no binary asset pipeline to embed a real
// encoded frame, so a zeroed buffer of a plausible frame size is used
// instead. See DESIGN.md.
var silentPayload = make([]byte, 417)

// Silent is a PlaylistChild that never finishes: it repeats a fixed
// silent frame forever, used to fill gaps in a station's source tree.
type Silent struct{}

// NewSilent creates a Silent child.
func NewSilent() *Silent { return &Silent{} }

// IsFinished always reports false; Silent never ends on its own.
func (s *Silent) IsFinished() bool { return false }

// StreamFrames streams the silent frame forever until ctx is canceled.
func (s *Silent) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	out := make(chan frame.Result)
	fr := frame.Meta{
		Payload:     silentPayload,
		DurationMs:  silentFrameMs,
		Title:       "Silent",
		Artist:      "Silent",
		ContentType: "audio/mpeg",
	}
	go func() {
		defer close(out)
		for {
			select {
			case out <- frame.Result{Frame: fr}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
