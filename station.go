/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package wavecast

import (
	"context"
	"sync"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/listenertable"
	"github.com/wavecast/wavecast/internal/logging"
	"github.com/wavecast/wavecast/internal/source"
)

// Station is the frame engine behind one streamed path. A single
// background goroutine drains child's frames into a one-slot mailbox;
// PrepareFrame, called by whichever listener first reaches the tail of
// the chain, drains that mailbox and publishes the result as the new
// tail. Every attached listener then walks the chain independently,
// never blocking on another listener's pace.
type Station struct {
	Name   string
	logger *logging.Logger

	// recvMu serializes the mailbox-drain-and-publish critical section:
	// whichever caller is first to observe an empty tail performs the
	// (possibly blocking) mailbox read and publish; a second caller
	// blocked on this mutex will, once it acquires it, see the freshly
	// published tail still has an empty Next and will itself pull the
	// following item — so every observer of an empty tail that proceeds
	// past this point produces exactly one new frame, never more.
	recvMu sync.Mutex

	stateMu     sync.Mutex
	newest      *frame.Prepared
	finished    bool
	contentType string

	childRecv <-chan frame.Result

	listeners *listenertable.Table
}

// NewStation creates a Station streaming child's frames, starting its
// background producer immediately. ctx bounds the producer's lifetime;
// canceling it stops frame production (but does not tear down already
// attached listeners, which will simply observe the station finishing).
func NewStation(ctx context.Context, name string, child source.PlaylistChild, logger *logging.Logger) *Station {
	sentinel := frame.NewSentinel()
	recv := make(chan frame.Result, 1)

	st := &Station{
		Name:      name,
		logger:    logger,
		newest:    sentinel,
		childRecv: recv,
		listeners: listenertable.New(sentinel, logger),
	}
	go st.runProducer(ctx, child, recv)
	return st
}

func (s *Station) runProducer(ctx context.Context, child source.PlaylistChild, recv chan<- frame.Result) {
	defer close(recv)

	frames, err := child.StreamFrames(ctx)
	if err != nil {
		select {
		case recv <- frame.Result{Err: err}:
		case <-ctx.Done():
		}
		return
	}

	for fr := range frames {
		select {
		case recv <- fr:
		case <-ctx.Done():
			return
		}
	}
}

// PrepareFrame is idempotent: if the current tail already has a
// successor, it returns immediately without touching the mailbox. Only
// a caller that observes an empty tail drains the mailbox, publishes
// exactly one new frame, and advances the tail.
func (s *Station) PrepareFrame() error {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()

	s.stateMu.Lock()
	finished := s.finished
	tail := s.newest
	s.stateMu.Unlock()

	if finished || tail.Next() != nil {
		return nil
	}

	res, ok := <-s.childRecv
	if !ok {
		s.stateMu.Lock()
		s.finished = true
		s.stateMu.Unlock()
		return nil
	}
	if res.Err != nil {
		s.stateMu.Lock()
		s.finished = true
		s.stateMu.Unlock()
		return res.Err
	}

	next := &frame.Prepared{ID: frame.NextID(), Frame: res.Frame}
	tail.SetNext(next)

	s.stateMu.Lock()
	s.newest = next
	s.contentType = res.Frame.ContentType
	s.stateMu.Unlock()
	return nil
}

// ContentType returns the content type of the most recently prepared
// frame, or "" before any frame has been prepared.
func (s *Station) ContentType() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.contentType
}

// Finished reports whether the station's source has been exhausted.
func (s *Station) Finished() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.finished
}

// GetOldestPreparedFrame returns the oldest frame any attached listener
// might still need, the starting point for a brand new listener.
func (s *Station) GetOldestPreparedFrame() *frame.Prepared {
	return s.listeners.GetOldestFrame()
}

// LogCurrentFrame records that id has now consumed fr.
func (s *Station) LogCurrentFrame(id frame.ListenerID, fr *frame.Prepared) {
	s.listeners.LogCurrentFrame(id, fr)
}

// LogSessionID associates sessionID with listenerID.
func (s *Station) LogSessionID(sessionID string, listenerID uint64) {
	s.listeners.LogSessionID(sessionID, listenerID)
}

// GetFrameWithID returns the last frame seen by id's listener, if any.
func (s *Station) GetFrameWithID(id frame.ListenerID) *frame.Prepared {
	return s.listeners.GetFrameWithID(id)
}

// GetListenerIDFromSessionID resolves a session id to a listener id.
func (s *Station) GetListenerIDFromSessionID(sessionID string) (uint64, bool) {
	return s.listeners.GetListenerIDFromSessionID(sessionID)
}

// ListenerCount returns the number of listeners currently tracked.
func (s *Station) ListenerCount() int {
	return s.listeners.Count()
}
