/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

// stripCStyleComments removes "//" line comments and "/* */" block
// comments from b, tolerating neither construct inside a JSON string
// literal. Adapted in place from the teacher's
// devt.de/krotik/common/stringutil.StripCStyleComments, which the
// original playlist loader used as a fallback pass after strict
// encoding/json parsing failed.
func stripCStyleComments(b []byte) []byte {
	out := make([]byte, 0, len(b))
	inString := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(b); i++ {
		c := b[i]
		var next byte
		if i+1 < len(b) {
			next = b[i+1]
		}

		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
			}
			continue

		case inBlockComment:
			if c == '*' && next == '/' {
				inBlockComment = false
				i++
			}
			continue

		case inString:
			out = append(out, c)
			if c == '\\' && i+1 < len(b) {
				out = append(out, next)
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue

		case c == '"':
			inString = true
			out = append(out, c)

		case c == '/' && next == '/':
			inLineComment = true
			i++

		case c == '/' && next == '*':
			inBlockComment = true
			i++

		default:
			out = append(out, c)
		}
	}
	return out
}
