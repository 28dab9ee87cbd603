package sentry_ext

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	recentErrorDuration = time.Minute * 5
	defaultCacheSize    = 100
)

type cache struct {
	*lru.Cache
	now func() time.Time
}

func newCache(size int) (*cache, error) {
	if size == 0 {
		size = defaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &cache{Cache: c, now: time.Now}, nil
}

// shouldCapture returns true if the message should be sent.
//
// The last send time of each message hash is kept in an LRU cache; messages
// sent within recentErrorDuration are skipped.
func (c *cache) shouldCapture(msg string) bool {
	h := md5.New()
	h.Write([]byte(msg))
	hash := hex.EncodeToString(h.Sum(nil))

	now := c.now()
	if lastSent, exists := c.Get(hash); exists {
		if now.Sub(lastSent.(time.Time)) < recentErrorDuration {
			return false
		}
	}

	c.Add(hash, now)
	return true
}
