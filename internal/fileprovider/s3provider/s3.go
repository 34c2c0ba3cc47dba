/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package s3provider implements fileprovider.Provider against an S3
// bucket, using internal/fileprovider/cache to give probing code local,
// randomly-accessible copies of remote objects.
package s3provider

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wavecast/wavecast/internal/errkind"
	"github.com/wavecast/wavecast/internal/fileprovider"
	"github.com/wavecast/wavecast/internal/fileprovider/cache"
)

// Provider resolves paths as keys inside a single S3 bucket, optionally
// under a key prefix.
type Provider struct {
	client *s3.Client
	bucket string
	prefix string
	cache  *cache.Cache
}

// New creates a Provider for bucket using region (or the SDK's default
// credential/region resolution if region is empty). Objects are cached
// on disk via c for LocalCachePath.
func New(ctx context.Context, bucket, prefix, region string, c *cache.Cache) (*Provider, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ConfigError, "load aws config")
	}
	return &Provider{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		cache:  c,
	}, nil
}

func (p *Provider) key(path string) string {
	if p.prefix == "" {
		return path
	}
	return p.prefix + "/" + path
}

// Open implements fileprovider.Provider.
func (p *Provider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(path)),
	})
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ResourceNotFound, path)
	}
	return out.Body, nil
}

// Stat implements fileprovider.Provider.
func (p *Provider) Stat(ctx context.Context, path string) (fileprovider.Metadata, error) {
	out, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(path)),
	})
	if err != nil {
		return fileprovider.Metadata{}, errkind.Wrap(err, errkind.ResourceNotFound, path)
	}
	meta := fileprovider.Metadata{}
	if out.ContentLength != nil {
		meta.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	if out.ETag != nil {
		meta.ETag = strings.Trim(*out.ETag, `"`)
	}
	return meta, nil
}

// List implements fileprovider.Provider.
func (p *Provider) List(ctx context.Context, dir string, recursive bool) (<-chan string, error) {
	prefix := p.key(strings.TrimSuffix(dir, "/"))
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	out := make(chan string)
	go func() {
		defer close(out)

		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(p.bucket),
			Prefix: aws.String(prefix),
		}
		if !recursive {
			input.Delimiter = aws.String("/")
		}

		paginator := s3.NewListObjectsV2Paginator(p.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return
			}
			for _, obj := range page.Contents {
				if obj.Key == nil {
					continue
				}
				rel := strings.TrimPrefix(*obj.Key, prefix)
				if rel == "" {
					continue
				}
				select {
				case out <- rel:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// LocalCachePath implements fileprovider.Provider, fetching path into
// the backing cache keyed by its current ETag.
func (p *Provider) LocalCachePath(ctx context.Context, path string) (string, error) {
	meta, err := p.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	return p.cache.Fetch(ctx, "s3://"+p.bucket, path, meta.ETag, func(ctx context.Context) (io.ReadCloser, error) {
		return p.Open(ctx, path)
	})
}
