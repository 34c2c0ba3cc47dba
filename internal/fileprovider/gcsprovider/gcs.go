/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package gcsprovider implements fileprovider.Provider against a Google
// Cloud Storage bucket, mirroring s3provider's shape over a different
// SDK and sharing the same on-disk cache.Cache for LocalCachePath.
package gcsprovider

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
	"github.com/wavecast/wavecast/internal/fileprovider/cache"
)

// Provider resolves paths as object names inside a single GCS bucket,
// optionally under a name prefix.
type Provider struct {
	bucket *storage.BucketHandle
	prefix string
	cache  *cache.Cache
}

// New creates a Provider for bucketName using client, which callers
// construct (and authenticate) via storage.NewClient.
func New(client *storage.Client, bucketName, prefix string, c *cache.Cache) *Provider {
	return &Provider{
		bucket: client.Bucket(bucketName),
		prefix: strings.Trim(prefix, "/"),
		cache:  c,
	}
}

func (p *Provider) name(path string) string {
	if p.prefix == "" {
		return path
	}
	return p.prefix + "/" + path
}

// Open implements fileprovider.Provider.
func (p *Provider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := p.bucket.Object(p.name(path)).NewReader(ctx)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ResourceNotFound, path)
	}
	return r, nil
}

// Stat implements fileprovider.Provider.
func (p *Provider) Stat(ctx context.Context, path string) (fileprovider.Metadata, error) {
	attrs, err := p.bucket.Object(p.name(path)).Attrs(ctx)
	if err != nil {
		return fileprovider.Metadata{}, errkind.Wrap(err, errkind.ResourceNotFound, path)
	}
	return fileprovider.Metadata{
		Size:         attrs.Size,
		LastModified: attrs.Updated,
		ETag:         attrs.Etag,
	}, nil
}

// List implements fileprovider.Provider.
func (p *Provider) List(ctx context.Context, dir string, recursive bool) (<-chan string, error) {
	prefix := p.name(strings.TrimSuffix(dir, "/"))
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	out := make(chan string)
	go func() {
		defer close(out)

		it := p.bucket.Objects(ctx, query)
		for {
			attrs, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				return
			}
			if attrs.Name == "" {
				continue
			}
			rel := strings.TrimPrefix(attrs.Name, prefix)
			if rel == "" {
				continue
			}
			select {
			case out <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// LocalCachePath implements fileprovider.Provider, fetching path into
// the backing cache keyed by its current generation ETag.
func (p *Provider) LocalCachePath(ctx context.Context, path string) (string, error) {
	meta, err := p.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	return p.cache.Fetch(ctx, "gcs://", path, meta.ETag, func(ctx context.Context) (io.ReadCloser, error) {
		return p.Open(ctx, path)
	})
}
