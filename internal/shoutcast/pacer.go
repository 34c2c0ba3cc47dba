/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package shoutcast

import (
	"context"
	"time"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/frame"
)

// writeAheadCapMs bounds how far a listener's production may run ahead
// of real wall-clock playback time before pacing backs off.
const writeAheadCapMs = 60_000

// writeAheadBackoff is how long FrameStream sleeps once it hits the
// write-ahead cap, before rechecking.
const writeAheadBackoff = 5 * time.Second

// FrameStream is the per-listener pacer: it walks a Station's frame
// chain one node at a time, sleeping between frames so a fast reader
// doesn't drain the whole backlog in a tight loop. It plays the role of
// the original implementation's async PlaylistFrameStream, translated
// into ordinary blocking Go since Next is already called from its own
// per-listener goroutine.
type FrameStream struct {
	station *wavecast.Station

	current      *frame.Prepared
	writeAheadMs float64
	createdAt    time.Time
	pendingSleep time.Duration
}

// NewFrameStream attaches a pacer to station, starting from id's last
// known frame (reconnect) or the station's current head (fresh listener).
func NewFrameStream(station *wavecast.Station, id frame.ListenerID) *FrameStream {
	current := station.GetFrameWithID(id)
	if current == nil {
		current = station.GetOldestPreparedFrame()
	}
	return &FrameStream{
		station:   station,
		current:   current,
		createdAt: time.Now(),
	}
}

// CurrentFrame returns the frame most recently returned by Next.
func (s *FrameStream) CurrentFrame() *frame.Prepared {
	return s.current
}

// Next returns the next frame in sequence, blocking (pacing sleeps and
// the station's mailbox wait included) until one is ready. A (nil, nil)
// return signals a clean end of stream; a non-nil error is a producer
// failure the caller should treat as fatal for this listener.
func (s *FrameStream) Next(ctx context.Context) (*frame.Meta, error) {
	if s.pendingSleep > 0 {
		if err := sleep(ctx, s.pendingSleep); err != nil {
			return nil, err
		}
		s.pendingSleep = 0
	}

	for {
		elapsedMs := float64(time.Since(s.createdAt).Milliseconds())
		if s.writeAheadMs > writeAheadCapMs+elapsedMs {
			if err := sleep(ctx, writeAheadBackoff); err != nil {
				return nil, err
			}
			continue
		}

		next := s.current.Next()
		if next == nil {
			if err := s.station.PrepareFrame(); err != nil {
				return nil, err
			}
			next = s.current.Next()
			if next == nil {
				if s.station.Finished() {
					return nil, nil
				}
				// Producer hasn't published yet despite PrepareFrame
				// returning; retry rather than spin unbounded.
				if err := sleep(ctx, time.Millisecond*50); err != nil {
					return nil, err
				}
				continue
			}
		}

		s.current = next
		s.writeAheadMs += next.Frame.DurationMs
		s.pendingSleep = time.Duration(next.Frame.DurationMs) * time.Millisecond

		fr := next.Frame
		return &fr, nil
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
