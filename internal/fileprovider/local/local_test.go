/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderOpenAndStat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "track.mp3"), []byte("abcde"), 0o644))

	p := New(dir)
	ctx := context.Background()

	meta, err := p.Stat(ctx, "track.mp3")
	require.NoError(t, err)
	assert.EqualValues(t, 5, meta.Size)

	rc, err := p.Open(ctx, "track.mp3")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(data))
}

func TestProviderOpenMissingFile(t *testing.T) {
	p := New(t.TempDir())
	_, err := p.Open(context.Background(), "missing.mp3")
	require.Error(t, err)
}

func TestProviderListNonRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.mp3"), []byte("y"), 0o644))

	p := New(dir)
	ch, err := p.List(context.Background(), ".", false)
	require.NoError(t, err)

	var got []string
	for path := range ch {
		got = append(got, path)
	}
	assert.Equal(t, []string{"a.mp3"}, got)
}
