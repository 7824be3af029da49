// Package cache stores fetched forecasts on disk so repeated prediction runs
// in a short window reuse one WeatherAPI response instead of re-fetching.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blizzardhq/blizzard/internal/weather"
)

// ForecastCache is a file-backed forecast cache with a freshness window.
// An empty directory disables caching entirely.
type ForecastCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
}

// New creates a cache rooted at dir. Entries older than ttl are treated as
// misses; forecasts go stale quickly, so ttl should stay short.
func New(dir string, ttl time.Duration) *ForecastCache {
	return &ForecastCache{dir: dir, ttl: ttl}
}

// Key derives the cache key for a forecast request. The key covers the
// location and the calendar date so a run after midnight never reuses the
// previous day's forecast.
func Key(zipCode string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(zipCode + "\x00" + day.Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached forecast if one exists and is still fresh.
func (c *ForecastCache) Get(key string) (*weather.Forecast, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.cachePath(key)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var forecast weather.Forecast
	if err := json.Unmarshal(data, &forecast); err != nil {
		// Invalid cache entry, treat as miss.
		return nil, false
	}
	return &forecast, true
}

// Put stores a forecast in the cache.
func (c *ForecastCache) Put(key string, forecast *weather.Forecast) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(forecast, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling forecast: %w", err)
	}

	if err := os.WriteFile(c.cachePath(key), data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

func (c *ForecastCache) cachePath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
