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
	"sync"

	"github.com/wavecast/wavecast/internal/frame"
	"github.com/wavecast/wavecast/internal/logging"
)

// ChildFactory discovers the concrete children of a PlaylistChildList
// the first time it is needed; for a folder-backed list this is where
// the (possibly remote) directory listing happens.
type ChildFactory func(ctx context.Context) ([]PlaylistChild, error)

// PlaylistChildList is a composite PlaylistChild that fans out over a
// lazily-discovered set of children, reordering them with an
// InfiniteShuffleStream.
type PlaylistChildList struct {
	factory ChildFactory
	repeat  bool
	shuffle bool
	logger  *logging.Logger

	mu            sync.Mutex
	initialized   bool
	initErr       error
	children      []PlaylistChild
	shuffleStream *InfiniteShuffleStream[PlaylistChild]
	played        bool
}

// NewPlaylistChildList creates a PlaylistChildList whose children are
// discovered by factory on first use.
func NewPlaylistChildList(factory ChildFactory, repeat, shuffle bool, logger *logging.Logger) *PlaylistChildList {
	return &PlaylistChildList{factory: factory, repeat: repeat, shuffle: shuffle, logger: logger}
}

func (l *PlaylistChildList) ensureInit(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return l.initErr
	}
	l.initialized = true

	children, err := l.factory(ctx)
	if err != nil {
		l.initErr = err
		return err
	}
	l.children = children
	l.shuffleStream = NewInfiniteShuffleStream(l.childSource, l.repeat, l.shuffle)
	return nil
}

// childSource replays the discovered children slice, the restartable
// source InfiniteShuffleStream calls again on every repeat pass.
func (l *PlaylistChildList) childSource(ctx context.Context) (<-chan Result[PlaylistChild], error) {
	l.mu.Lock()
	children := l.children
	l.mu.Unlock()

	out := make(chan Result[PlaylistChild])
	go func() {
		defer close(out)
		for _, c := range children {
			select {
			case out <- Result[PlaylistChild]{Value: c}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// IsFinished reports whether a non-repeating pass over every child has
// already completed.
func (l *PlaylistChildList) IsFinished() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.played && !l.repeat
}

// StreamFrames fans each discovered child's frames through in shuffled
// order. A child that fails to start, or emits a per-item error, is
// logged and skipped rather than ending the whole list.
func (l *PlaylistChildList) StreamFrames(ctx context.Context) (<-chan frame.Result, error) {
	if err := l.ensureInit(ctx); err != nil {
		return nil, err
	}

	l.mu.Lock()
	alreadyDone := l.played && !l.repeat
	l.mu.Unlock()

	out := make(chan frame.Result)
	if alreadyDone {
		close(out)
		return out, nil
	}

	go func() {
		defer close(out)
		childCh := l.shuffleStream.Stream(ctx)
		for res := range childCh {
			if res.Err != nil {
				l.logger.Error("playlist child discovery error", "err", res.Err)
				continue
			}

			child := res.Value
			frames, err := child.StreamFrames(ctx)
			if err != nil {
				l.logger.Error("failed to start playlist child stream", "err", err)
				continue
			}

			for fr := range frames {
				if fr.Err != nil {
					l.logger.Error("playlist child frame error", "err", fr.Err)
					continue
				}
				select {
				case out <- fr:
				case <-ctx.Done():
					return
				}
			}
		}

		l.mu.Lock()
		l.played = true
		l.mu.Unlock()
	}()
	return out, nil
}
