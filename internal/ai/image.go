// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageGenerator is an optional interface that AI providers can implement
// to support image generation. Not all providers have this capability
// (Claude and Mistral are text-only).
type ImageGenerator interface {
	// GenerateImage creates an image from a text prompt. Returns the raw
	// image bytes and the MIME content type (e.g., "image/png").
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// GenerateImage calls the active provider's image generation if supported.
// Returns an error if the active provider does not implement ImageGenerator.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	p, err := r.Active()
	if err != nil {
		return nil, "", err
	}

	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, "", fmt.Errorf("ai: provider %q does not support image generation", p.Name())
	}

	return ig.GenerateImage(ctx, prompt)
}

// GenerateImageDataURI generates an image and returns it encoded as a data
// URI, ready to be stored as a slide background.
func (r *Registry) GenerateImageDataURI(ctx context.Context, prompt string) (string, error) {
	data, contentType, err := r.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// GenerateImageDataURIs generates count images for the same prompt, for
// the editor's picker grid. Providers generate one image per call, so
// this issues count sequential calls; a failure after at least one
// success returns the partial result rather than discarding paid work.
func (r *Registry) GenerateImageDataURIs(ctx context.Context, prompt string, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}

	uris := make([]string, 0, count)
	for i := 0; i < count; i++ {
		uri, err := r.GenerateImageDataURI(ctx, prompt)
		if err != nil {
			if len(uris) > 0 {
				return uris, nil
			}
			return nil, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

// SupportsImageGeneration returns true if the active provider can generate images.
func (r *Registry) SupportsImageGeneration() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	_, ok := p.(ImageGenerator)
	return ok
}
