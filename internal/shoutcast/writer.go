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
	"fmt"
	"io"

	"github.com/wavecast/wavecast/internal/frame"
)

// metaIntBytes is the number of audio bytes between consecutive
// in-band metadata blocks, advertised to the client via icy-metaint.
const metaIntBytes = 65536

// maxMetaDataSize is the largest StreamTitle text streamWriter will
// emit before truncating, chosen so the padded block (a multiple of 16)
// never exceeds 4080 bytes — the largest value the single length byte
// (block-size/16) can represent is 255.
const maxMetaDataSize = 4080

// streamWriter writes a station's frames to a listener socket,
// interleaving in-band ICY metadata blocks every metaIntBytes bytes of
// audio when the client asked for them.
type streamWriter struct {
	w              io.Writer
	metaEnabled    bool
	bytesUntilMeta int
}

// newStreamWriter creates a streamWriter over w. metaEnabled mirrors
// whether the client's handshake requested Icy-MetaData.
func newStreamWriter(w io.Writer, metaEnabled bool) *streamWriter {
	return &streamWriter{w: w, metaEnabled: metaEnabled, bytesUntilMeta: metaIntBytes}
}

// WriteFrame writes one frame's payload, splitting it around metadata
// boundaries when metadata is enabled. The client that never asked for
// metadata gets pure audio; no length byte is ever written for it.
func (sw *streamWriter) WriteFrame(fr frame.Meta) error {
	payload := fr.Payload

	if sw.metaEnabled {
		for sw.bytesUntilMeta < len(payload) {
			if _, err := sw.w.Write(payload[:sw.bytesUntilMeta]); err != nil {
				return err
			}
			payload = payload[sw.bytesUntilMeta:]

			block := composeMetaBlock(fr.Artist, fr.Title)
			if _, err := sw.w.Write(block); err != nil {
				return err
			}
			sw.bytesUntilMeta = metaIntBytes
		}
	}

	if len(payload) > 0 {
		if _, err := sw.w.Write(payload); err != nil {
			return err
		}
		sw.bytesUntilMeta -= len(payload)
	}
	return nil
}

// composeMetaBlock builds one ICY in-band metadata block: a length byte
// (block size / 16) followed by "StreamTitle='artist - title';" padded
// with NUL bytes to a multiple of 16.
func composeMetaBlock(artist, title string) []byte {
	text := fmt.Sprintf("StreamTitle='%s - %s';", artist, title)
	if len(text) > maxMetaDataSize {
		keep := maxMetaDataSize - 2 // room for the closing "';"
		text = text[:keep] + "';"
	}

	padded := len(text)
	if rem := padded % 16; rem != 0 {
		padded += 16 - rem
	}

	block := make([]byte, 1+padded)
	block[0] = byte(padded / 16)
	copy(block[1:], text)
	return block
}
