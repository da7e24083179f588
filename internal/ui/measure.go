package ui

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Extent is the size of a run of text in logical pixels
type Extent struct {
	Width  float64
	Height float64
}

// Measurer lays out a single line of text in the given font description
type Measurer interface {
	MeasureText(font, text string) Extent
}

// MeasureFunc adapts a function to Measurer
type MeasureFunc func(font, text string) Extent

func (f MeasureFunc) MeasureText(font, text string) Extent {
	return f(font, text)
}

const defaultCacheSize = 512

// CachedMeasurer remembers extents of recently drawn strings. Workspace
// names and the clock barely change between frames, so most lookups hit.
type CachedMeasurer struct {
	inner Measurer
	cache *lru.Cache[string, Extent]
}

// NewCachedMeasurer wraps m with an LRU cache of size entries
func NewCachedMeasurer(m Measurer, size int) *CachedMeasurer {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, Extent](size)
	if err != nil {
		// lru.New only fails for a non-positive size
		panic(err)
	}
	return &CachedMeasurer{inner: m, cache: cache}
}

func (c *CachedMeasurer) MeasureText(font, text string) Extent {
	key := font + "\x00" + text
	if e, ok := c.cache.Get(key); ok {
		return e
	}
	e := c.inner.MeasureText(font, text)
	c.cache.Add(key, e)
	return e
}

// Purge drops every cached extent, e.g. after the scale factor changed
func (c *CachedMeasurer) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached extents
func (c *CachedMeasurer) Len() int {
	return c.cache.Len()
}
