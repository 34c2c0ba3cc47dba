/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package local implements fileprovider.Provider against the local
// filesystem, rooted at a configured directory.
package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
)

// Provider resolves paths under a root directory on local disk.
type Provider struct {
	root string
}

// New creates a Provider rooted at root.
func New(root string) *Provider {
	return &Provider{root: root}
}

func (p *Provider) resolve(path string) string {
	return filepath.Join(p.root, path)
}

// Open implements fileprovider.Provider.
func (p *Provider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(p.resolve(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errkind.Wrap(err, errkind.ResourceNotFound, path)
		}
		return nil, errkind.Wrap(err, errkind.IoError, path)
	}
	return f, nil
}

// Stat implements fileprovider.Provider.
func (p *Provider) Stat(ctx context.Context, path string) (fileprovider.Metadata, error) {
	fi, err := os.Stat(p.resolve(path))
	if err != nil {
		return fileprovider.Metadata{}, errkind.Wrap(err, errkind.ResourceNotFound, path)
	}
	return fileprovider.Metadata{Size: fi.Size(), LastModified: fi.ModTime()}, nil
}

// List implements fileprovider.Provider.
func (p *Provider) List(ctx context.Context, dir string, recursive bool) (<-chan string, error) {
	base := p.resolve(dir)
	out := make(chan string)
	go func() {
		defer close(out)
		filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !recursive && path != base {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(p.root, path)
			if relErr != nil {
				return nil
			}
			select {
			case out <- rel:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()
	return out, nil
}

// LocalCachePath implements fileprovider.Provider: files are already
// local, so this is just path resolution.
func (p *Provider) LocalCachePath(ctx context.Context, path string) (string, error) {
	return p.resolve(path), nil
}
