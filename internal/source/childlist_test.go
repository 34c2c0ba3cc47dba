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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

type fakeChild struct {
	title string
}

func (c *fakeChild) IsFinished() bool { return true }

func (c *fakeChild) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	out := make(chan frame.Result, 1)
	out <- frame.Result{Frame: frame.Meta{Title: c.title, DurationMs: 1}}
	close(out)
	return out, nil
}

func TestPlaylistChildListStreamsEveryChildOnce(t *testing.T) {
	children := []PlaylistChild{&fakeChild{"a"}, &fakeChild{"b"}, &fakeChild{"c"}}
	factory := func(ctx context.Context) ([]PlaylistChild, error) { return children, nil }

	list := NewPlaylistChildList(factory, false, false, logging.New(logging.LevelDisabled, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := list.StreamFrames(ctx)
	require.NoError(t, err)

	var titles []string
	for fr := range out {
		titles = append(titles, fr.Frame.Title)
	}
	sort.Strings(titles)
	assert.Equal(t, []string{"a", "b", "c"}, titles)
	assert.True(t, list.IsFinished())
}

func TestPlaylistChildListRestartAfterFinishIsEmpty(t *testing.T) {
	children := []PlaylistChild{&fakeChild{"a"}}
	factory := func(ctx context.Context) ([]PlaylistChild, error) { return children, nil }

	list := NewPlaylistChildList(factory, false, false, logging.New(logging.LevelDisabled, nil))
	ctx := context.Background()

	out, err := list.StreamFrames(ctx)
	require.NoError(t, err)
	for range out {
	}
	require.True(t, list.IsFinished())

	out2, err := list.StreamFrames(ctx)
	require.NoError(t, err)
	count := 0
	for range out2 {
		count++
	}
	assert.Equal(t, 0, count)
}
