/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package listenertable implements the three TTL/TTI caches that track
// attached listeners for a station: session id to listener id, listener
// id to last-seen frame, and (listener id, frame id) live markers whose
// eviction drives the station's garbage-collection pointer forward.
package listenertable

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

const (
	// idleTimeout is how long a session-to-listener or listener-to-frame
	// mapping survives without being touched.
	idleTimeout = 5 * time.Minute
	// liveMarkerTTL bounds how far the garbage collector can lag behind
	// the slowest listener before that listener's frames are reclaimed.
	liveMarkerTTL   = 60 * time.Second
	cleanupInterval = time.Minute
)

// Table holds the per-station listener bookkeeping.
type Table struct {
	logger *logging.Logger

	mu   sync.Mutex
	head *frame.Prepared

	sessionToListener *cache.Cache
	listenerToFrame   *cache.Cache
	liveMarkers       *cache.Cache
}

// New creates a Table whose garbage-collection pointer starts at
// sentinel, the station's initial (empty) frame node.
func New(sentinel *frame.Prepared, logger *logging.Logger) *Table {
	t := &Table{
		logger:            logger,
		head:              sentinel,
		sessionToListener: cache.New(idleTimeout, cleanupInterval),
		listenerToFrame:   cache.New(idleTimeout, cleanupInterval),
		liveMarkers:       cache.New(liveMarkerTTL, cleanupInterval),
	}
	t.liveMarkers.OnEvicted(t.onLiveMarkerEvicted)
	return t
}

func markerKey(listenerID, frameID uint64) string {
	return fmt.Sprintf("%d:%d", listenerID, frameID)
}

func listenerKey(listenerID uint64) string {
	return strconv.FormatUint(listenerID, 10)
}

// onLiveMarkerEvicted fires when a (listener, frame) marker's TTL
// expires, meaning that listener is no longer guaranteed to still need
// that frame. It advances the shared GC pointer past any frame whose id
// is now below the evicted one, but only as far as the chain already
// reaches — the pointer never outruns the actual published chain.
func (t *Table) onLiveMarkerEvicted(key string, _ interface{}) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return
	}
	frameID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for t.head.ID < frameID {
		next := t.head.Next()
		if next == nil {
			break
		}
		t.head = next
	}
}

// GetOldestFrame returns the oldest frame any listener might still need,
// the starting point for a fresh listener with no prior session.
func (t *Table) GetOldestFrame() *frame.Prepared {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.head
}

// LogCurrentFrame records that id has now consumed fr: it refreshes the
// session mapping (if any), stamps a fresh live marker for (id, fr), and
// records fr as the listener's last-seen frame.
func (t *Table) LogCurrentFrame(id frame.ListenerID, fr *frame.Prepared) {
	if id.SessionID != "" {
		t.sessionToListener.SetDefault(id.SessionID, id.ListenerID)
	}
	t.liveMarkers.SetDefault(markerKey(id.ListenerID, fr.ID), struct{}{})
	t.listenerToFrame.SetDefault(listenerKey(id.ListenerID), fr)
}

// LogSessionID associates sessionID with listenerID, refreshing the
// mapping's idle timer.
func (t *Table) LogSessionID(sessionID string, listenerID uint64) {
	t.sessionToListener.SetDefault(sessionID, listenerID)
}

// GetFrameWithID returns the last frame seen by id's listener, resolving
// through the session mapping first when a session id is present.
// Successful lookups refresh the idle timer, since go-cache does not do
// this automatically on Get.
func (t *Table) GetFrameWithID(id frame.ListenerID) *frame.Prepared {
	listenerID := id.ListenerID
	if id.SessionID != "" {
		if v, ok := t.sessionToListener.Get(id.SessionID); ok {
			listenerID = v.(uint64)
			t.sessionToListener.SetDefault(id.SessionID, listenerID)
		}
	}
	v, ok := t.listenerToFrame.Get(listenerKey(listenerID))
	if !ok {
		return nil
	}
	t.listenerToFrame.SetDefault(listenerKey(listenerID), v)
	return v.(*frame.Prepared)
}

// GetListenerIDFromSessionID resolves a previously seen session id back
// to its listener id. A successful lookup refreshes the idle timer.
func (t *Table) GetListenerIDFromSessionID(sessionID string) (uint64, bool) {
	v, ok := t.sessionToListener.Get(sessionID)
	if !ok {
		return 0, false
	}
	t.sessionToListener.SetDefault(sessionID, v)
	return v.(uint64), true
}

// Count returns the number of listeners with a live last-frame mapping,
// used by the admin status API.
func (t *Table) Count() int {
	return t.listenerToFrame.ItemCount()
}

// DebugSnapshot returns every tracked listener's last-seen frame id,
// sorted in increasing order, for trace-level logging.
func (t *Table) DebugSnapshot() []int64 {
	items := t.listenerToFrame.Items()
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if fr, ok := item.Object.(*frame.Prepared); ok {
			ids = append(ids, int64(fr.ID))
		}
	}
	sortInt64s(ids)
	return ids
}
