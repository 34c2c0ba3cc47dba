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
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/wavecast/wavecast"
	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
	fpcache "github.com/wavecast/wavecast/internal/fileprovider/cache"
	"github.com/wavecast/wavecast/internal/fileprovider/gcsprovider"
	"github.com/wavecast/wavecast/internal/fileprovider/local"
	"github.com/wavecast/wavecast/internal/fileprovider/s3provider"
	"github.com/wavecast/wavecast/internal/logging"
	"github.com/wavecast/wavecast/internal/source"
)

// Route binds one accepted-socket path to the station serving it.
type Route struct {
	Host     string
	Port     uint16
	Path     string
	Playlist string
}

// Built is the runtime tree assembled from a GlobalConfig: one Station
// per declared playlist, and the routing table outputs describes.
type Built struct {
	Stations map[string]*wavecast.Station
	Routes   []Route
}

// Build constructs every provider, playlist source tree and Station
// described by cfg. ctx bounds the lifetime of every Station's
// background producer. cache backs any remote_client providers;
// it may be nil if cfg declares none.
func Build(ctx context.Context, cfg *GlobalConfig, logger *logging.Logger, cache *fpcache.Cache) (*Built, error) {
	providers, err := buildProviders(ctx, cfg, cache)
	if err != nil {
		return nil, err
	}

	stations := make(map[string]*wavecast.Station, len(cfg.Playlists))
	for name, entry := range cfg.Playlists {
		child, err := buildChild(entry.Child, providers, logger)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ConfigError, "build playlist "+name)
		}
		stations[name] = wavecast.NewStation(ctx, entry.Name, child, logger.With(name))
	}

	routes := make([]Route, 0, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		routes = append(routes, Route{Host: o.Host, Port: o.Port, Path: normalizePath(o.Path), Playlist: o.Playlist})
	}

	return &Built{Stations: stations, Routes: routes}, nil
}

func buildProviders(ctx context.Context, cfg *GlobalConfig, cache *fpcache.Cache) (map[string]fileprovider.Provider, error) {
	providers := make(map[string]fileprovider.Provider, len(cfg.FileProvider))
	for name, fc := range cfg.FileProvider {
		switch fc.Type {
		case ProviderAwsS3:
			p, err := s3provider.New(ctx, fc.Bucket, fc.Prefix, fc.Region, cache)
			if err != nil {
				return nil, errkind.Wrap(err, errkind.ConfigError, "build file_provider "+name)
			}
			providers[name] = p

		case ProviderGoogleCloudStorage:
			client, err := storage.NewClient(ctx)
			if err != nil {
				return nil, errkind.Wrap(err, errkind.ConfigError, "build file_provider "+name)
			}
			providers[name] = gcsprovider.New(client, fc.Bucket, fc.Prefix, cache)

		default:
			return nil, errkind.Newf(errkind.ConfigError, "file_provider %q: unrecognized type %q", name, fc.Type)
		}
	}
	return providers, nil
}

// buildChild turns one PlaylistChildConfig node into a source.PlaylistChild,
// falling back to FailOver (recursively) if the primary fails to construct.
func buildChild(c PlaylistChildConfig, providers map[string]fileprovider.Provider, logger *logging.Logger) (source.PlaylistChild, error) {
	child, err := buildChildPrimary(c, providers, logger)
	if err == nil {
		return child, nil
	}
	if c.FailOver == nil {
		return nil, err
	}
	logger.Warn("playlist child failed to construct, using fail_over", "err", err)
	return buildChild(*c.FailOver, providers, logger)
}

func buildChildPrimary(c PlaylistChildConfig, providers map[string]fileprovider.Provider, logger *logging.Logger) (source.PlaylistChild, error) {
	switch c.Type {
	case ChildSilent:
		return source.NewSilent(), nil

	case ChildLocalFolder:
		fp := local.New(c.Folder)
		factory := folderFactory(fp, ".", c.Recursive, c.Repeat, logger)
		return source.NewPlaylistChildList(factory, c.Repeat, c.Shuffle, logger), nil

	case ChildLocalFiles:
		fp := local.New("")
		factory := filesFactory(fp, c.Files, c.Repeat, logger)
		return source.NewPlaylistChildList(factory, c.Repeat, c.Shuffle, logger), nil

	case ChildRemoteFolder:
		fp, ok := providers[c.RemoteClient]
		if !ok {
			return nil, errkind.Newf(errkind.ConfigError, "unknown remote_client %q", c.RemoteClient)
		}
		factory := folderFactory(fp, c.Folder, c.Recursive, c.Repeat, logger)
		return source.NewPlaylistChildList(factory, c.Repeat, c.Shuffle, logger), nil

	case ChildRemoteFiles:
		fp, ok := providers[c.RemoteClient]
		if !ok {
			return nil, errkind.Newf(errkind.ConfigError, "unknown remote_client %q", c.RemoteClient)
		}
		factory := filesFactory(fp, c.Files, c.Repeat, logger)
		return source.NewPlaylistChildList(factory, c.Repeat, c.Shuffle, logger), nil

	case ChildPlaylists:
		children := make([]source.PlaylistChild, 0, len(c.Children))
		for _, cc := range c.Children {
			child, err := buildChild(cc, providers, logger)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		factory := func(ctx context.Context) ([]source.PlaylistChild, error) { return children, nil }
		return source.NewPlaylistChildList(factory, c.Repeat, c.Shuffle, logger), nil

	default:
		return nil, errkind.Newf(errkind.ConfigError, "unrecognized playlist child type %q", c.Type)
	}
}

// folderFactory lists dir through fp and wraps every discovered path in
// a LocalFileTrack, the lazy directory-discovery analogue of the
// teacher's fileplaylist directory scan.
func folderFactory(fp fileprovider.Provider, dir string, recursive, repeat bool, logger *logging.Logger) source.ChildFactory {
	return func(ctx context.Context) ([]source.PlaylistChild, error) {
		paths, err := fp.List(ctx, dir, recursive)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ResourceNotFound, fmt.Sprintf("list %s", dir))
		}
		var children []source.PlaylistChild
		for p := range paths {
			children = append(children, source.NewLocalFileTrack(p, fp, repeat, logger))
		}
		return children, nil
	}
}

func filesFactory(fp fileprovider.Provider, files []string, repeat bool, logger *logging.Logger) source.ChildFactory {
	return func(ctx context.Context) ([]source.PlaylistChild, error) {
		children := make([]source.PlaylistChild, 0, len(files))
		for _, f := range files {
			children = append(children, source.NewLocalFileTrack(f, fp, repeat, logger))
		}
		return children, nil
	}
}
