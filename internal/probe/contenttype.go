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

// contentTypeByExt maps file extensions (without the leading dot) to
// content types, adapted from the teacher's FileExtContentTypes table.
var contentTypeByExt = map[string]string{
	"mp3":  "audio/mpeg",
	"flac": "audio/flac",
	"aac":  "audio/x-aac",
	"mp4a": "audio/mp4",
	"mp4":  "video/mp4",
	"nsv":  "video/nsv",
	"ogg":  "audio/ogg",
	"spx":  "audio/ogg",
	"opus": "audio/ogg",
	"oga":  "audio/ogg",
	"ogv":  "video/ogg",
	"weba": "audio/webm",
	"webm": "video/webm",
	"axa":  "audio/annodex",
	"axv":  "video/annodex",
}
