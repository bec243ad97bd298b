package doctors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

// Catalog serves the doctor directory, caching the upstream list in
// redis. The cache fails open: a redis outage degrades to upstream
// reads, never to an error.
type Catalog struct {
	client *upstream.Client
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCatalog creates a catalog. The redis client is optional; a nil
// client disables caching.
func NewCatalog(client *upstream.Client, rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Catalog{
		client: client,
		redis:  rdb,
		ttl:    ttl,
		logger: logger,
	}
}

const listKey = "doctors:catalog"

func doctorKey(id string) string {
	return fmt.Sprintf("doctors:catalog:%s", id)
}

// List returns the active doctors, from cache when fresh.
func (c *Catalog) List(ctx context.Context) ([]Doctor, error) {
	if cached, ok := c.load(ctx, listKey); ok {
		var out []Doctor
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	raws, err := c.client.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	out := FromRawList(raws)
	c.store(ctx, listKey, out)
	return out, nil
}

// Get returns one doctor by id.
func (c *Catalog) Get(ctx context.Context, id string) (*Doctor, error) {
	if cached, ok := c.load(ctx, doctorKey(id)); ok {
		var out Doctor
		if err := json.Unmarshal(cached, &out); err == nil {
			return &out, nil
		}
	}

	raw, err := c.client.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromRaw(*raw)
	c.store(ctx, doctorKey(id), out)
	return &out, nil
}

func (c *Catalog) load(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("doctor cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (c *Catalog) store(ctx context.Context, key string, v any) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("doctor cache write failed", "key", key, "error", err)
	}
}
