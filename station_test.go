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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

type fixedChild struct {
	frames []frame.Meta
	err    error
}

func (c *fixedChild) IsFinished() bool { return true }

func (c *fixedChild) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	out := make(chan frame.Result, len(c.frames)+1)
	for _, fr := range c.frames {
		out <- frame.Result{Frame: fr}
	}
	if c.err != nil {
		out <- frame.Result{Err: c.err}
	}
	close(out)
	return out, nil
}

func newTestStation(t *testing.T, frames []frame.Meta) (*Station, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	st := NewStation(ctx, "test", &fixedChild{frames: frames}, logging.New(logging.LevelDisabled, nil))
	return st, cancel
}

func TestStationPrepareFrameDeliversInOrder(t *testing.T) {
	frames := []frame.Meta{
		{ContentType: "audio/mpeg", Title: "one"},
		{ContentType: "audio/mpeg", Title: "two"},
	}
	st, cancel := newTestStation(t, frames)
	defer cancel()

	require.NoError(t, st.PrepareFrame())
	head := st.GetOldestPreparedFrame()
	first := head.Next()
	require.NotNil(t, first)
	assert.Equal(t, "one", first.Frame.Title)

	require.NoError(t, st.PrepareFrame())
	second := first.Next()
	require.NotNil(t, second)
	assert.Equal(t, "two", second.Frame.Title)
}

func TestStationPrepareFrameIsIdempotentWhenTailAlreadyHasSuccessor(t *testing.T) {
	frames := []frame.Meta{{Title: "one"}, {Title: "two"}}
	st, cancel := newTestStation(t, frames)
	defer cancel()

	require.NoError(t, st.PrepareFrame())
	head := st.GetOldestPreparedFrame()
	first := head.Next()
	require.NotNil(t, first)

	// Calling PrepareFrame again while the tail already has a successor
	// must not consume a second frame from the mailbox.
	require.NoError(t, st.PrepareFrame())
	require.NoError(t, st.PrepareFrame())
	assert.Same(t, first, head.Next())
}

func TestStationFinishesWhenSourceDrains(t *testing.T) {
	st, cancel := newTestStation(t, []frame.Meta{{Title: "only"}})
	defer cancel()

	require.NoError(t, st.PrepareFrame())
	require.NoError(t, st.PrepareFrame())
	assert.True(t, st.Finished())
}

func TestStationConcurrentPrepareFrameNeverDuplicates(t *testing.T) {
	frames := make([]frame.Meta, 20)
	for i := range frames {
		frames[i] = frame.Meta{Title: "t"}
	}
	st, cancel := newTestStation(t, frames)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.PrepareFrame()
		}()
	}
	wg.Wait()

	// Walk the chain and make sure ids are strictly increasing with no
	// repeats, regardless of how many goroutines raced to prepare.
	seen := map[uint64]bool{}
	cur := st.GetOldestPreparedFrame()
	count := 0
	for cur != nil {
		if seen[cur.ID] {
			t.Fatalf("frame id %d observed twice", cur.ID)
		}
		seen[cur.ID] = true
		count++
		cur = cur.Next()
	}
	assert.LessOrEqual(t, count-1, 10)
}
