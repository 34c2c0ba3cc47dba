/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package config parses and validates the top-level JSON configuration
// file and builds the runtime source/station tree it describes, playing
// the role the teacher's playlist.NewFilePlaylistFactory played for a
// single flat playlist file.
package config

// GlobalConfig is the top-level shape of the configuration file.
type GlobalConfig struct {
	Playlists    map[string]PlaylistEntry      `json:"playlists"`
	FileProvider map[string]FileProviderConfig `json:"file_provider"`
	Outputs      []OutputConfig                `json:"outputs"`
	LogLevel     string                        `json:"log_level,omitempty"`
	LogFile      []string                      `json:"log_file,omitempty"`
	CacheDir     string                        `json:"cache_dir,omitempty"`
}

// PlaylistEntry names one playlist and its root child.
type PlaylistEntry struct {
	Name  string              `json:"name"`
	Child PlaylistChildConfig `json:"child"`
}

// OutputConfig binds a playlist to a listening socket and URL path.
type OutputConfig struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	Path     string `json:"path"`
	Playlist string `json:"playlist"`
}

// PlaylistChildConfig is the tagged union of every source.PlaylistChild
// variant the configuration file can describe. Type selects which of
// the remaining fields apply; unused fields are simply left zero.
type PlaylistChildConfig struct {
	Type string `json:"type"`

	Folder       string   `json:"folder,omitempty"`
	Files        []string `json:"files,omitempty"`
	RemoteClient string   `json:"remote_client,omitempty"`

	Repeat    bool `json:"repeat,omitempty"`
	Shuffle   bool `json:"shuffle,omitempty"`
	Recursive bool `json:"recursive,omitempty"`

	Children []PlaylistChildConfig `json:"children,omitempty"`
	FailOver *PlaylistChildConfig  `json:"fail_over,omitempty"`
}

// Recognized PlaylistChildConfig.Type values.
const (
	ChildSilent       = "silent"
	ChildLocalFolder  = "local_folder"
	ChildLocalFiles   = "local_files"
	ChildRemoteFolder = "remote_folder"
	ChildRemoteFiles  = "remote_files"
	ChildPlaylists    = "playlists"
)

// FileProviderConfig is the tagged union of remote fileprovider.Provider
// backends a configuration file can describe.
type FileProviderConfig struct {
	Type   string `json:"type"`
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// Recognized FileProviderConfig.Type values.
const (
	ProviderAwsS3              = "aws_s3"
	ProviderGoogleCloudStorage = "google_cloud_storage"
)
