// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging downscales uploaded slide assets (logos and background
// images) before they are stored. Slides render at 1280x720, so anything
// wider than the deck resolution only wastes bandwidth.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/gif"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxPixels caps the decoded image size to guard against decompression
// bombs. 40 megapixels covers any sane upload.
const maxPixels = 40_000_000

// Variant describes one downscaled rendition of an uploaded image.
type Variant struct {
	Suffix   string // appended to the storage key, e.g. "-thumb"
	MaxWidth int    // images narrower than this are not upscaled
	Quality  int    // JPEG quality
}

// DefaultVariants are the renditions generated for slide background
// uploads: a full-size version bounded by the deck resolution and a
// thumbnail for the slide strip.
var DefaultVariants = []Variant{
	{Suffix: "", MaxWidth: 1920, Quality: 85},
	{Suffix: "-thumb", MaxWidth: 320, Quality: 75},
}

// ProcessedImage is one encoded rendition ready for upload.
type ProcessedImage struct {
	Suffix      string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Process decodes an uploaded image and produces the given variants as
// JPEG. The reader must be seekable so the image can be probed for size
// before the full decode.
func Process(r io.ReadSeeker, variants []Variant) ([]ProcessedImage, error) {
	// Probe dimensions first to reject decompression bombs without
	// decoding the full image.
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("probe image: %w", err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds pixel limit", cfg.Width, cfg.Height)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	out := make([]ProcessedImage, 0, len(variants))
	for _, v := range variants {
		img, err := scale(src, v)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Suffix, err)
		}
		out = append(out, img)
	}
	return out, nil
}

// scale resizes src to fit the variant's max width, preserving aspect
// ratio. Images already narrower than MaxWidth are re-encoded at their
// original size, never upscaled.
func scale(src image.Image, v Variant) (ProcessedImage, error) {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	dstW, dstH := srcW, srcH
	if srcW > v.MaxWidth {
		dstW = v.MaxWidth
		dstH = srcH * v.MaxWidth / srcW
		if dstH < 1 {
			dstH = 1
		}
	}

	var encoded image.Image = src
	if dstW != srcW || dstH != srcH {
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		encoded = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, encoded, &jpeg.Options{Quality: v.Quality}); err != nil {
		return ProcessedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return ProcessedImage{
		Suffix:      v.Suffix,
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
		Width:       dstW,
		Height:      dstH,
	}, nil
}
