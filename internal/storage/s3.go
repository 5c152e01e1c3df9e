// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps rendered card assets in S3-compatible object
// storage. Finished cards and durable copies of generated artwork go to
// the public bucket; previews go to the private bucket and are shared
// through pre-signed URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"ecardfactory/internal/apperr"
)

// Asset is a kind of stored card file.
type Asset string

const (
	AssetArtwork Asset = "artwork"
	AssetFinal   Asset = "final"
	AssetPreview Asset = "preview"
)

// PreviewURLExpiry bounds how long a shared preview link stays valid.
const PreviewURLExpiry = 24 * time.Hour

// Client wraps an S3 client for card assets on two buckets.
type Client struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, publicBucket, privateBucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if publicBucket == "" || privateBucket == "" {
		return nil, fmt.Errorf("storage: both buckets must be named")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:            s3Client,
		presigner:     s3.NewPresignClient(s3Client),
		publicBucket:  publicBucket,
		privateBucket: privateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object. Public bucket objects get a public-read ACL.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if bucket == c.publicBucket {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return apperr.Wrap(apperr.Unavailable, fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err), "object storage unavailable")
	}
	return nil
}

// PutCardAsset uploads one card file under a fresh key and returns a URL
// for it: the public URL for artwork and final cards, a pre-signed URL
// for previews.
func (c *Client) PutCardAsset(ctx context.Context, cardID int64, kind Asset, contentType string, data []byte) (string, error) {
	key := AssetKey(cardID, kind, contentType)
	switch kind {
	case AssetPreview:
		if err := c.Upload(ctx, c.privateBucket, key, contentType, data); err != nil {
			return "", err
		}
		return c.PresignedURL(ctx, c.privateBucket, key, PreviewURLExpiry)
	case AssetArtwork, AssetFinal:
		if err := c.Upload(ctx, c.publicBucket, key, contentType, data); err != nil {
			return "", err
		}
		return c.FileURL(key), nil
	}
	return "", fmt.Errorf("storage: unknown asset kind %q", kind)
}

// AssetKey builds cards/<id>/<kind>-<uuid>.<ext>. Keys are never reused so
// a regenerated card never overwrites an earlier render.
func AssetKey(cardID int64, kind Asset, contentType string) string {
	ext := "bin"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	}
	return fmt.Sprintf("cards/%d/%s-%s.%s", cardID, kind, uuid.NewString(), ext)
}

// FileURL returns the public URL for a file in the public bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.publicBucket + "/" + key
}

// PresignedURL generates a pre-signed GET URL for a private object.
func (c *Client) PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
