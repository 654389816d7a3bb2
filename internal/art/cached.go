package art

import (
	"context"
	"fmt"
	"time"

	"github.com/youruser/cardforge/internal/cache"
)

// Cached serves repeated prompts from a cache before calling Inner.
type Cached struct {
	Inner Generator
	Cache cache.Cache
	TTL   time.Duration
}

func (c *Cached) Name() string { return c.Inner.Name() }

func (c *Cached) Generate(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	key := cache.Key("art", c.Inner.Name(), prompt, fmt.Sprintf("%dx%d", width, height))
	if data, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := c.Inner.Generate(ctx, prompt, width, height)
	if err != nil {
		return nil, err
	}
	_ = c.Cache.Set(ctx, key, data, c.TTL)
	return data, nil
}
