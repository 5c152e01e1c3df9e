// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"time"

	"ecardfactory/internal/apperr"
)

// Download limits for generated artwork.
const (
	MinImageBytes     = 100 * 1024
	MaxImageBytes     = 10 * 1024 * 1024
	MinImageDimension = 512
	MaxImageDimension = 8192
	FetchTimeout      = 20 * time.Second
)

// Report describes whether a remote image is usable as card artwork.
type Report struct {
	Valid       bool    `json:"valid"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FileSizeKB  float64 `json:"file_size_kb"`
	ContentType string  `json:"content_type"`
	Error       string  `json:"error,omitempty"`
}

// Fetcher downloads artwork over HTTP, following redirects.
type Fetcher struct {
	client *http.Client

	MinBytes     int
	MaxBytes     int
	MinDimension int
}

// NewFetcher creates a fetcher with the default limits. A nil client gets
// one with FetchTimeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: FetchTimeout}
	}
	return &Fetcher{
		client:       client,
		MinBytes:     MinImageBytes,
		MaxBytes:     MaxImageBytes,
		MinDimension: MinImageDimension,
	}
}

// Download returns the body and media type at url. Transport failures and
// non-200 responses are upstream-unavailable errors.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err, "invalid image url")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Unavailable, err, "failed to download image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperr.New(apperr.Unavailable, "image download returned status %d", resp.StatusCode)
	}

	// Read one byte past the ceiling so oversize bodies are detectable.
	limit := int64(f.MaxBytes) + 1
	if f.MaxBytes <= 0 {
		limit = MaxImageBytes + 1
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Unavailable, err, "failed to read image body")
	}

	return body, mediaType(resp.Header.Get("Content-Type"), body), nil
}

// Load downloads and decodes the image at url for compositing.
func (f *Fetcher) Load(ctx context.Context, url string) (image.Image, error) {
	body, _, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// Decode decodes PNG or JPEG bytes. Undecodable input and images larger
// than MaxImageDimension on either side are asset-invalid; the header is
// checked before any pixels are allocated.
func Decode(b []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, apperr.Wrap(apperr.AssetInvalid, err, "downloaded file is not a valid image")
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, apperr.New(apperr.AssetInvalid,
			"image is %dx%d, above the %dpx maximum", cfg.Width, cfg.Height, MaxImageDimension)
	}

	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, apperr.Wrap(apperr.AssetInvalid, err, "downloaded file is not a valid image")
	}
	return img, nil
}

// Validate downloads url and checks status, type, size and dimensions.
// Every failure is reported in the Report rather than returned; the body
// is returned only when the report is valid.
func (f *Fetcher) Validate(ctx context.Context, url string) (*Report, []byte) {
	body, ct, err := f.Download(ctx, url)
	if err != nil {
		return &Report{Error: apperr.Message(err)}, nil
	}
	report := f.Check(body, ct)
	if !report.Valid {
		return report, nil
	}
	return report, body
}

// Check validates already-downloaded image bytes.
func (f *Fetcher) Check(body []byte, contentType string) *Report {
	r := &Report{
		ContentType: contentType,
		FileSizeKB:  float64(int(float64(len(body))/1024*100+0.5)) / 100,
	}

	if contentType != "image/png" && contentType != "image/jpeg" {
		r.Error = fmt.Sprintf("unsupported content type %q", contentType)
		return r
	}
	if len(body) < f.MinBytes {
		r.Error = fmt.Sprintf("image is %d bytes, below the %d byte minimum", len(body), f.MinBytes)
		return r
	}
	if len(body) > f.MaxBytes {
		r.Error = fmt.Sprintf("image exceeds the %d byte maximum", f.MaxBytes)
		return r
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		r.Error = "image header could not be decoded"
		return r
	}
	r.Width, r.Height = cfg.Width, cfg.Height
	if cfg.Width < f.MinDimension || cfg.Height < f.MinDimension {
		r.Error = fmt.Sprintf("image is %dx%d, below the %dpx minimum", cfg.Width, cfg.Height, f.MinDimension)
		return r
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		r.Error = fmt.Sprintf("image is %dx%d, above the %dpx maximum", cfg.Width, cfg.Height, MaxImageDimension)
		return r
	}

	r.Valid = true
	return r
}

// mediaType normalizes the declared content type, sniffing the body when
// the header is missing.
func mediaType(header string, body []byte) string {
	if header == "" {
		header = http.DetectContentType(body)
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}
