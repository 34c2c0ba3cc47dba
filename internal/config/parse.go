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

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wavecast/wavecast/internal/errkind"
)

// Load reads and parses the configuration file at path. Strict JSON is
// tried first; on failure the file is re-parsed after stripping "//"
// and "/* */" comments, the same two-pass fallback the teacher's
// playlist.NewFilePlaylistFactory used.
func Load(path string) (*GlobalConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ConfigError, "read configuration file")
	}

	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		stripped := stripCStyleComments(raw)
		if err2 := json.Unmarshal(stripped, &cfg); err2 != nil {
			return nil, errkind.Wrap(err, errkind.ConfigError, "parse configuration file")
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field invariants Load can't express with
// JSON tags alone: unique (host, port, path) routes, and every output's
// playlist and remote_client references resolving to a declared entry.
func Validate(cfg *GlobalConfig) error {
	seen := make(map[string]bool, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		key := fmt.Sprintf("%s:%d%s", o.Host, o.Port, normalizePath(o.Path))
		if seen[key] {
			return errkind.Newf(errkind.ConfigError, "duplicate output route %s", key)
		}
		seen[key] = true

		if _, ok := cfg.Playlists[o.Playlist]; !ok {
			return errkind.Newf(errkind.ConfigError, "output references unknown playlist %q", o.Playlist)
		}
	}

	for name, entry := range cfg.Playlists {
		if err := validateChild(cfg, entry.Child); err != nil {
			return errkind.Wrap(err, errkind.ConfigError, "playlist "+name)
		}
	}
	return nil
}

func validateChild(cfg *GlobalConfig, c PlaylistChildConfig) error {
	switch c.Type {
	case ChildRemoteFolder, ChildRemoteFiles:
		if _, ok := cfg.FileProvider[c.RemoteClient]; !ok {
			return errkind.Newf(errkind.ConfigError, "references unknown file_provider %q", c.RemoteClient)
		}
	case ChildPlaylists:
		for _, child := range c.Children {
			if err := validateChild(cfg, child); err != nil {
				return err
			}
		}
	}
	if c.FailOver != nil {
		return validateChild(cfg, *c.FailOver)
	}
	return nil
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}
