/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package frame holds the wire-independent frame types shared by the
// station engine, the source tree and the SHOUTcast writer. It exists
// on its own so those three layers can reference the same identifiers
// without importing one another.
package frame

import "sync/atomic"

// Meta carries one chunk of audio payload plus the metadata a SHOUTcast
// listener expects alongside it.
type Meta struct {
	Payload     []byte
	DurationMs  float64
	Title       string
	Artist      string
	ContentType string
}

// Result is one item off a source's frame channel: either a frame or an
// error, never both.
type Result struct {
	Frame Meta
	Err   error
}

// ListenerID identifies one attached listener. SessionID is empty unless
// the client sent an x-playback-session-id header.
type ListenerID struct {
	ListenerID uint64
	SessionID  string
}

var (
	frameIDSeq    atomic.Uint64
	listenerIDSeq atomic.Uint64
)

// NextID returns the next value from the process-wide monotonic frame-id
// source, shared by every station.
func NextID() uint64 {
	return frameIDSeq.Add(1)
}

// NextListenerID returns the next value from the process-wide monotonic
// listener-id source.
func NextListenerID() uint64 {
	return listenerIDSeq.Add(1)
}

// Prepared is one node of a station's frame chain: an immutable frame
// plus a publish-once pointer to its successor. Next is safe to read
// and set concurrently; SetNext only ever takes effect once.
type Prepared struct {
	ID    uint64
	Frame Meta

	next atomic.Pointer[Prepared]
}

// NewSentinel returns an empty Prepared node used as the head of a
// fresh station's chain before any real frame exists.
func NewSentinel() *Prepared {
	return &Prepared{ID: NextID()}
}

// Next returns the successor of p, or nil if none has been published yet.
func (p *Prepared) Next() *Prepared {
	return p.next.Load()
}

// SetNext publishes n as p's successor. Only the first call wins; later
// calls are no-ops. Returns whether this call did the publishing.
func (p *Prepared) SetNext(n *Prepared) bool {
	return p.next.CompareAndSwap(nil, n)
}
