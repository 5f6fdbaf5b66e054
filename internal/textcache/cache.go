// Package textcache memoizes the text of large HTML exports.
//
// Entries are keyed by path and minify flag and live until Clear is called.
// There is no TTL and no file watching: a file changed on disk is only
// re-read after an explicit Clear.
package textcache

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MinifyThreshold is the length, in characters, above which text is minified.
const MinifyThreshold = 200_000

// ReadFunc reads a whole file. Tests substitute it to count storage reads.
type ReadFunc func(path string) ([]byte, error)

type key struct {
	path   string
	minify bool
}

func (k key) String() string {
	return fmt.Sprintf("%t\x00%s", k.minify, k.path)
}

// Cache holds loaded text for the lifetime of the process. Safe for
// concurrent use; concurrent misses on one key share a single read.
type Cache struct {
	read     ReadFunc
	minifier Minifier
	logger   *zap.Logger
	group    singleflight.Group

	mu         sync.RWMutex
	entries    map[key]string
	generation uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithReader replaces the function used to read files.
func WithReader(fn ReadFunc) Option {
	return func(c *Cache) {
		if fn != nil {
			c.read = fn
		}
	}
}

// WithMinifier sets the minifier. A nil Minifier disables minification.
func WithMinifier(m Minifier) Option {
	return func(c *Cache) {
		c.minifier = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty Cache reading from disk with the HTML minifier.
func New(opts ...Option) *Cache {
	c := &Cache{
		read:     os.ReadFile,
		minifier: NewHTMLMinifier(),
		logger:   zap.NewNop(),
		entries:  make(map[key]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrLoad returns the text at path, reading it on the first call for the
// (path, minify) pair. Read errors are returned and not cached.
// Callers are expected to check that path exists beforehand.
func (c *Cache) GetOrLoad(path string, minify bool) (string, error) {
	k := key{path: path, minify: minify}

	c.mu.RLock()
	text, ok := c.entries[k]
	gen := c.generation
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	// Flights are per generation: a read started before Clear is never
	// shared with callers arriving after it.
	v, err, _ := c.group.Do(fmt.Sprintf("%d\x00%s", gen, k), func() (any, error) {
		c.mu.RLock()
		text, ok := c.entries[k]
		c.mu.RUnlock()
		if ok {
			return text, nil
		}

		text, err := c.load(path, minify)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		// A Clear during the read invalidates what was read.
		if c.generation == gen {
			c.entries[k] = text
		}
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// load reads path and applies the minifier when the text is large enough.
func (c *Cache) load(path string, minify bool) (string, error) {
	data, err := c.read(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)

	if !minify || c.minifier == nil {
		return text, nil
	}
	n := utf8.RuneCountInString(text)
	if n <= MinifyThreshold {
		return text, nil
	}

	out, err := c.minifier.Minify(text)
	if err != nil {
		c.logger.Warn("minification failed, serving raw text", zap.String("path", path), zap.Error(err))
		return text, nil
	}
	c.logger.Debug("minified text",
		zap.String("path", path),
		zap.Int("chars_before", n),
		zap.Int("chars_after", utf8.RuneCountInString(out)),
	)
	return out, nil
}

// Clear drops every entry. Subsequent calls re-read (and re-minify) from storage.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[key]string)
	c.generation++
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
