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
	"math/rand"
)

const shuffleBufferSize = 8

// Result is one item off a ShuffleSource: a value or an error, mirroring
// frame.Result's shape for whatever element type T the shuffle is over.
type Result[T any] struct {
	Value T
	Err   error
}

// ShuffleSource produces one fresh, restartable pass over some sequence
// of T whenever called. InfiniteShuffleStream calls it again each time
// repeat is true and the previous pass drained.
type ShuffleSource[T any] func(ctx context.Context) (<-chan Result[T], error)

// InfiniteShuffleStream reorders a sequence using a bounded 8-item
// buffer, trading perfect shuffle quality for O(1) memory. Each arriving
// item is, with probability shuffleProbability, emitted immediately;
// otherwise it is pushed to the front or back of the buffer with equal
// split of the remaining probability, and once the buffer exceeds 8
// items the opposite end is popped and emitted. When the underlying
// source drains, any buffered items are flushed from a random end.
type InfiniteShuffleStream[T any] struct {
	newSource ShuffleSource[T]
	repeat    bool

	// shuffleProbability is 1.0 (no reordering) unless shuffle is
	// requested, in which case it is 0.3. upProbability splits the
	// remainder evenly between push-front and push-back.
	shuffleProbability float64
	upProbability      float64

	rnd *rand.Rand
}

// NewInfiniteShuffleStream builds a stream over newSource. When repeat
// is true, newSource is invoked again every time a pass drains.
func NewInfiniteShuffleStream[T any](newSource ShuffleSource[T], repeat, shuffle bool) *InfiniteShuffleStream[T] {
	shuffleProbability := 1.0
	if shuffle {
		shuffleProbability = 0.3
	}
	upProbability := shuffleProbability + (1.0-shuffleProbability)/2.0

	return &InfiniteShuffleStream[T]{
		newSource:          newSource,
		repeat:             repeat,
		shuffleProbability: shuffleProbability,
		upProbability:      upProbability,
		rnd:                rand.New(rand.NewSource(rand.Int63())),
	}
}

// WithRand overrides the random source, for deterministic tests.
func (s *InfiniteShuffleStream[T]) WithRand(rnd *rand.Rand) *InfiniteShuffleStream[T] {
	s.rnd = rnd
	return s
}

// Stream begins producing reordered items on a fresh channel, closing it
// when the sequence (repeat-aware) is exhausted or ctx is canceled.
func (s *InfiniteShuffleStream[T]) Stream(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T])
	go func() {
		defer close(out)
		var stored []T

		for {
			src, err := s.newSource(ctx)
			if err != nil {
				select {
				case out <- Result[T]{Err: err}:
				case <-ctx.Done():
				}
				return
			}

		inner:
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-src:
					if !ok {
						break inner
					}
					if item.Err != nil {
						select {
						case out <- item:
						case <-ctx.Done():
							return
						}
						continue
					}
					popped, emit := s.admit(&stored, item.Value)
					if !emit {
						continue
					}
					select {
					case out <- Result[T]{Value: popped}:
					case <-ctx.Done():
						return
					}
				}
			}

			if s.repeat {
				continue
			}
			drainBuffer(ctx, out, &stored, s.rnd)
			return
		}
	}()
	return out
}

// admit decides v's fate: emit it straight away, or buffer it and
// possibly emit whatever got bumped out the opposite end.
func (s *InfiniteShuffleStream[T]) admit(stored *[]T, v T) (T, bool) {
	r := s.rnd.Float64()
	switch {
	case r < s.shuffleProbability:
		return v, true
	case r < s.upProbability:
		*stored = append([]T{v}, *stored...)
		if len(*stored) > shuffleBufferSize {
			last := (*stored)[len(*stored)-1]
			*stored = (*stored)[:len(*stored)-1]
			return last, true
		}
	default:
		*stored = append(*stored, v)
		if len(*stored) > shuffleBufferSize {
			first := (*stored)[0]
			*stored = (*stored)[1:]
			return first, true
		}
	}
	var zero T
	return zero, false
}

// drainBuffer flushes any items left in stored, popping randomly from
// either end, once the underlying source has finished for good.
func drainBuffer[T any](ctx context.Context, out chan<- Result[T], stored *[]T, rnd *rand.Rand) {
	for len(*stored) > 0 {
		var v T
		if rnd.Float64() < 0.5 {
			v = (*stored)[0]
			*stored = (*stored)[1:]
		} else {
			last := len(*stored) - 1
			v = (*stored)[last]
			*stored = (*stored)[:last]
		}
		select {
		case out <- Result[T]{Value: v}:
		case <-ctx.Done():
			return
		}
	}
}
