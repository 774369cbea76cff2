package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cardle/internal/repository"
)

// catalogCacheTTL bounds how long make and model lists are served from
// memory. The catalog only changes through admin actions, which also
// invalidate the cache, so the TTL is a backstop.
const catalogCacheTTL = 10 * time.Minute

// imgTagPattern finds image tags in the Wikimedia search result markup;
// result thumbnails among them carry the sd-image class.
var (
	imgTagPattern  = regexp.MustCompile(`<img[^>]+>`)
	srcAttrPattern = regexp.MustCompile(`src="([^"]+)"`)
	thumbPattern   = regexp.MustCompile(`/thumb(/.+)/[^/]+$`)
)

type cacheEntry struct {
	values  []string
	expires time.Time
}

// CatalogService serves make and model lists and external image search.
// Concurrent lookups for the same key collapse into one database query.
type CatalogService struct {
	cars       *repository.CarRepository
	httpClient *http.Client

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cars *repository.CarRepository) *CatalogService {
	return &CatalogService{
		cars:       cars,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      make(map[string]cacheEntry),
	}
}

// Makes returns the sorted list of distinct makes
func (s *CatalogService) Makes() ([]string, error) {
	return s.cached("makes", s.cars.ListMakes)
}

// Models returns the sorted list of distinct models for a make
func (s *CatalogService) Models(make string) ([]string, error) {
	return s.cached("models:"+make, func() ([]string, error) {
		return s.cars.ListModels(make)
	})
}

// Invalidate drops the cached lists after a catalog change
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

func (s *CatalogService) cached(key string, load func() ([]string, error)) ([]string, error) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.values, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		values, err := load()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = cacheEntry{values: values, expires: time.Now().Add(catalogCacheTTL)}
		s.mu.Unlock()
		return values, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// SearchImages queries Wikimedia Commons media search and returns the
// full-size image URLs behind the result thumbnails
func (s *CatalogService) SearchImages(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf(
		"https://commons.wikimedia.org/w/index.php?search=%s&title=Special:MediaSearch&go=Go&type=image",
		url.QueryEscape(query),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	return ExtractImageURLs(string(body)), nil
}

// ExtractImageURLs pulls the search result image URLs out of the media
// search markup, rewriting thumbnail paths to their originals
func ExtractImageURLs(markup string) []string {
	var urls []string
	seen := make(map[string]bool)

	for _, tag := range imgTagPattern.FindAllString(markup, -1) {
		if !strings.Contains(tag, "sd-image") {
			continue
		}
		match := srcAttrPattern.FindStringSubmatch(tag)
		if match == nil {
			continue
		}
		full := rewriteThumbURL(match[1])
		if !seen[full] {
			seen[full] = true
			urls = append(urls, full)
		}
	}
	return urls
}

// rewriteThumbURL maps a /thumb/ URL to the original upload, e.g.
// .../thumb/a/ab/Car.jpg/640px-Car.jpg becomes .../a/ab/Car.jpg
func rewriteThumbURL(src string) string {
	return thumbPattern.ReplaceAllString(src, "$1")
}
