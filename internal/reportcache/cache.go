// Package reportcache stores rendered patient narratives in Redis, keyed by
// the analysis they were synthesized from.
package reportcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "readmit:report:"

// ErrMiss is returned by Get when no narrative is cached.
var ErrMiss = errors.New("report cache miss")

// Cache is a TTL-bounded narrative cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient creates a Redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// New wraps client. A zero ttl keeps entries until evicted.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key builds the cache key for one rendered report. The analysis ID is
// hashed so keys stay short.
func Key(analysisID, patientID, format string) string {
	sum := sha256.Sum256([]byte(analysisID))
	return keyPrefix + hex.EncodeToString(sum[:8]) + ":" + patientID + ":" + format
}

// Get returns the cached narrative or ErrMiss.
func (c *Cache) Get(ctx context.Context, analysisID, patientID, format string) ([]byte, error) {
	data, err := c.client.Get(ctx, Key(analysisID, patientID, format)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}
	return data, nil
}

// Put stores a rendered narrative.
func (c *Cache) Put(ctx context.Context, analysisID, patientID, format string, data []byte) error {
	if err := c.client.Set(ctx, Key(analysisID, patientID, format), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}

// GetOrRender returns the cached narrative, calling render and storing the
// result on a miss. Redis failures are logged and fall through to render.
func (c *Cache) GetOrRender(ctx context.Context, analysisID, patientID, format string, render func() ([]byte, error)) ([]byte, bool, error) {
	data, err := c.Get(ctx, analysisID, patientID, format)
	if err == nil {
		return data, true, nil
	}
	if !errors.Is(err, ErrMiss) {
		c.logger.Warn("report cache unavailable", zap.String("patient_id", patientID), zap.Error(err))
	}

	data, err = render()
	if err != nil {
		return nil, false, err
	}
	if err := c.Put(ctx, analysisID, patientID, format, data); err != nil {
		c.logger.Warn("report cache write failed", zap.String("patient_id", patientID), zap.Error(err))
	}
	return data, false, nil
}
