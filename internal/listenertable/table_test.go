/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package listenertable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

func newTestTable() (*Table, *frame.Prepared) {
	sentinel := frame.NewSentinel()
	return New(sentinel, logging.New(logging.LevelDisabled, nil)), sentinel
}

func TestGetOldestFrameStartsAtSentinel(t *testing.T) {
	table, sentinel := newTestTable()
	assert.Same(t, sentinel, table.GetOldestFrame())
}

func TestLogAndLookupBySessionID(t *testing.T) {
	table, sentinel := newTestTable()
	f1 := &frame.Prepared{ID: sentinel.ID + 1}
	sentinel.SetNext(f1)

	id := frame.ListenerID{ListenerID: 7, SessionID: "sess-1"}
	table.LogCurrentFrame(id, f1)

	lookup := frame.ListenerID{SessionID: "sess-1"}
	got := table.GetFrameWithID(lookup)
	require.NotNil(t, got)
	assert.Equal(t, f1.ID, got.ID)

	lid, ok := table.GetListenerIDFromSessionID("sess-1")
	require.True(t, ok)
	assert.EqualValues(t, 7, lid)
}

func TestLogAndLookupByListenerIDOnly(t *testing.T) {
	table, sentinel := newTestTable()
	f1 := &frame.Prepared{ID: sentinel.ID + 1}
	sentinel.SetNext(f1)

	id := frame.ListenerID{ListenerID: 42}
	table.LogCurrentFrame(id, f1)

	got := table.GetFrameWithID(frame.ListenerID{ListenerID: 42})
	require.NotNil(t, got)
	assert.Equal(t, f1.ID, got.ID)
}

func TestGCPointerAdvancesOnMarkerEviction(t *testing.T) {
	table, sentinel := newTestTable()
	f1 := &frame.Prepared{ID: sentinel.ID + 1}
	f2 := &frame.Prepared{ID: sentinel.ID + 2}
	sentinel.SetNext(f1)
	f1.SetNext(f2)

	table.onLiveMarkerEvicted(markerKey(1, f2.ID), nil)

	assert.Same(t, f2, table.GetOldestFrame())
}

func TestGCPointerNeverOutrunsChain(t *testing.T) {
	table, sentinel := newTestTable()

	// No frames published yet; an eviction naming a far-future frame id
	// must not advance past the last published node.
	table.onLiveMarkerEvicted(markerKey(1, sentinel.ID+100), nil)

	assert.Same(t, sentinel, table.GetOldestFrame())
}

func TestDebugSnapshotIsSorted(t *testing.T) {
	table, sentinel := newTestTable()
	f1 := &frame.Prepared{ID: sentinel.ID + 5}
	f2 := &frame.Prepared{ID: sentinel.ID + 1}

	table.LogCurrentFrame(frame.ListenerID{ListenerID: 1}, f1)
	table.LogCurrentFrame(frame.ListenerID{ListenerID: 2}, f2)

	snap := table.DebugSnapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[0] <= snap[1])
}
