/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package probe

import (
	"errors"
	"io"
	"os"

	"github.com/tcolgate/mp3"

	"github.com/wavecast/wavecast/internal/errkind"
)

// estimateMP3DurationMs walks every MPEG frame in path and sums their
// durations, the fallback the original implementation uses
// (mp3_duration::from_path) when ID3 carries no duration of its own.
func estimateMP3DurationMs(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errkind.Wrap(err, errkind.IoError, "open track for duration estimation")
	}
	defer f.Close()

	d := mp3.NewDecoder(f)
	var totalMs float64
	var fr mp3.Frame
	skipped := 0
	for {
		if err := d.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, errkind.Wrap(err, errkind.ProbeFailure, "decode mp3 frame")
		}
		totalMs += fr.Duration().Seconds() * 1000
	}
	return totalMs, nil
}
