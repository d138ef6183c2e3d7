// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ImageSearcher finds stock photo URLs for a text query. It backs the
// "search the web" image source for slide backgrounds, as opposed to
// generating images with a provider.
type ImageSearcher interface {
	// Search returns up to count image URLs for the query, best match first.
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// pexelsSearcher implements ImageSearcher using the Pexels photo API
// (GET /v1/search). Returned URLs point at the landscape rendition, which
// matches the 16:9 slide geometry.
type pexelsSearcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewImageSearcher creates a Pexels-backed searcher. baseURL may be empty
// outside of tests.
func NewImageSearcher(apiKey, baseURL string) ImageSearcher {
	if baseURL == "" {
		baseURL = "https://api.pexels.com"
	}
	return &pexelsSearcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *pexelsSearcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("image search: query is empty")
	}
	if count < 1 {
		count = 1
	}
	if count > 30 {
		count = 30
	}

	u := s.baseURL + "/v1/search?query=" + url.QueryEscape(query) +
		"&per_page=" + strconv.Itoa(count) + "&orientation=landscape"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("image search request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image search read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("pexels", resp.StatusCode, respBody)
	}

	var result pexelsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("image search unmarshal: %w", err)
	}

	urls := make([]string, 0, len(result.Photos))
	for _, photo := range result.Photos {
		if photo.Src.Landscape != "" {
			urls = append(urls, photo.Src.Landscape)
		} else if photo.Src.Original != "" {
			urls = append(urls, photo.Src.Original)
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("image search: no results for %q", query)
	}
	return urls, nil
}

// SearchOne returns the single best match for a query from any ImageSearcher.
func SearchOne(ctx context.Context, s ImageSearcher, query string) (string, error) {
	urls, err := s.Search(ctx, query, 1)
	if err != nil {
		return "", err
	}
	return urls[0], nil
}

// --- Pexels API types ---

type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	Src pexelsSrc `json:"src"`
}

type pexelsSrc struct {
	Original  string `json:"original"`
	Landscape string `json:"landscape"`
}
