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
)

func intSource(values []int) ShuffleSource[int] {
	return func(ctx context.Context) (<-chan Result[int], error) {
		out := make(chan Result[int])
		go func() {
			defer close(out)
			for _, v := range values {
				select {
				case out <- Result[int]{Value: v}:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out, nil
	}
}

func collect(ctx context.Context, ch <-chan Result[int], n int) []int {
	var got []int
	for i := 0; i < n; i++ {
		select {
		case r, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, r.Value)
		case <-ctx.Done():
			return got
		}
	}
	return got
}

func TestInfiniteShuffleStreamNoShuffleRepeatsInOrder(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	stream := NewInfiniteShuffleStream(intSource(values), true, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := collect(ctx, stream.Stream(ctx), 20)

	require.Len(t, got, 20)
	assert.Equal(t, values, got[0:10])
	assert.Equal(t, values, got[10:20])
}

func TestInfiniteShuffleStreamPreservesMultiset(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8}
	stream := NewInfiniteShuffleStream(intSource(values), false, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := collect(ctx, stream.Stream(ctx), len(values)+1)

	require.Len(t, got, len(values))
	sort.Ints(got)
	assert.Equal(t, values, got)
}

func TestInfiniteShuffleStreamBufferNeverExceedsCap(t *testing.T) {
	values := make([]int, 500)
	for i := range values {
		values[i] = i
	}
	stream := NewInfiniteShuffleStream(intSource(values), false, true)

	var stored []int
	for _, v := range values {
		_, _ = stream.admit(&stored, v)
		assert.LessOrEqual(t, len(stored), shuffleBufferSize)
	}
}
