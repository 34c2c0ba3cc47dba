/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package shoutcast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavecast/wavecast/internal/frame"
)

func TestStreamWriterNoMetadataWritesPureAudio(t *testing.T) {
	var buf bytes.Buffer
	sw := newStreamWriter(&buf, false)

	payload := bytes.Repeat([]byte{0xAA}, metaIntBytes+100)
	require.NoError(t, sw.WriteFrame(frame.Meta{Payload: payload}))

	assert.Equal(t, payload, buf.Bytes())
}

func TestStreamWriterInsertsMetadataAtBoundary(t *testing.T) {
	var buf bytes.Buffer
	sw := newStreamWriter(&buf, true)

	payload := bytes.Repeat([]byte{0xAA}, metaIntBytes+10)
	require.NoError(t, sw.WriteFrame(frame.Meta{Payload: payload, Artist: "A", Title: "B"}))

	out := buf.Bytes()
	require.Greater(t, len(out), metaIntBytes)

	lenByte := out[metaIntBytes]
	blockSize := int(lenByte) * 16
	block := out[metaIntBytes+1 : metaIntBytes+1+blockSize]
	assert.True(t, strings.HasPrefix(string(block), "StreamTitle='A - B';"))

	tail := out[metaIntBytes+1+blockSize:]
	assert.Equal(t, 10, len(tail))
}

func TestStreamWriterExactBoundaryDoesNotSplit(t *testing.T) {
	var buf bytes.Buffer
	sw := newStreamWriter(&buf, true)

	payload := bytes.Repeat([]byte{0xAA}, metaIntBytes)
	require.NoError(t, sw.WriteFrame(frame.Meta{Payload: payload, Artist: "A", Title: "B"}))

	// bytesUntilMeta < len(payload) is strict: a payload exactly filling
	// the remaining budget does not trigger a metadata block yet.
	assert.Equal(t, payload, buf.Bytes())
	assert.Equal(t, 0, sw.bytesUntilMeta)
}

func TestComposeMetaBlockTruncatesOverlongTitle(t *testing.T) {
	longTitle := strings.Repeat("x", maxMetaDataSize)
	block := composeMetaBlock("Artist", longTitle)

	assert.LessOrEqual(t, len(block), 1+maxMetaDataSize)
	assert.True(t, strings.HasSuffix(string(bytes.TrimRight(block[1:], "\x00")), "';"))
}

func TestComposeMetaBlockPadsToMultipleOf16(t *testing.T) {
	block := composeMetaBlock("A", "B")
	assert.Equal(t, 0, (len(block)-1)%16)
	assert.Equal(t, byte((len(block)-1)/16), block[0])
}
