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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilentNeverFinishes(t *testing.T) {
	assert.False(t, NewSilent().IsFinished())
}

func TestSilentEmitsSilentTitleAndArtist(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewSilent().StreamFrames(ctx)
	require.NoError(t, err)

	r := <-out
	require.NoError(t, r.Err)
	assert.Equal(t, "Silent", r.Frame.Title)
	assert.Equal(t, "Silent", r.Frame.Artist)

	streamTitle := fmt.Sprintf("StreamTitle='%s - %s';", r.Frame.Artist, r.Frame.Title)
	assert.Equal(t, "StreamTitle='Silent - Silent';", streamTitle)
}
