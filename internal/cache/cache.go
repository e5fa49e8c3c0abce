// Package cache keeps downloaded artwork in memory for the duration of a run.
//
// Tracks without their own artwork fall back to the uploader avatar, so a
// collection from one uploader would otherwise fetch the same image once
// per track.
package cache

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// DefaultArtworkTTL bounds how long an image is reused.
var DefaultArtworkTTL = 1 * time.Hour

// ArtworkCache maps artwork URLs to image bytes.
type ArtworkCache struct {
	c   *ccache.Cache[[]byte]
	ttl time.Duration
	mux sync.Mutex
}

// New creates an ArtworkCache holding up to maxSize images.
func New(maxSize int64) *ArtworkCache {
	return &ArtworkCache{
		c: ccache.New(
			ccache.Configure[[]byte]().
				MaxSize(maxSize).
				GetsPerPromote(3).
				ItemsToPrune(1),
		),
		ttl: DefaultArtworkTTL,
	}
}

// Fetch returns the cached image for url, calling fetch on a miss or after
// expiry. Failed fetches are not cached.
func (c *ArtworkCache) Fetch(url string, fetch func() ([]byte, error)) ([]byte, error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	item, err := c.c.Fetch(url, c.ttl, fetch)
	if err != nil {
		return nil, err
	}
	return item.Value(), nil
}

// Len returns the number of cached images.
func (c *ArtworkCache) Len() int {
	return c.c.ItemCount()
}

// Stop releases the cache's background worker.
func (c *ArtworkCache) Stop() {
	c.c.Stop()
}
