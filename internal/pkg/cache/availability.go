// Package cache keeps short-lived month availability views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/slots"
)

// MonthCache is safe to use with a nil client, in which case every call is a miss.
//
// A month is stored as a hash keyed by MonthKey. Each field holds the view as
// computed at one local minute, since past days and today's trimmed slots
// depend on the clock. Invalidation drops the whole hash.
type MonthCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMonthCache(client *redis.Client, ttl time.Duration) *MonthCache {
	return &MonthCache{client: client, ttl: ttl}
}

func MonthKey(studioID uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("availability:%s:%04d-%02d", studioID, year, int(month))
}

func studioPattern(studioID uuid.UUID) string {
	return fmt.Sprintf("availability:%s:*", studioID)
}

// AsOf is the hash field for a view computed at the given local time.
func AsOf(local time.Time) string {
	return local.Format("2006-01-02T15:04")
}

func (c *MonthCache) Get(ctx context.Context, studioID uuid.UUID, year int, month time.Month, asOf string) ([]slots.DayAvailability, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.HGet(ctx, MonthKey(studioID, year, month), asOf).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn().Err(err).Msg("availability cache read failed")
		}
		return nil, false
	}

	var days []slots.DayAvailability
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false
	}
	return days, true
}

func (c *MonthCache) Set(ctx context.Context, studioID uuid.UUID, year int, month time.Month, asOf string, days []slots.DayAvailability) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(days)
	if err != nil {
		return
	}
	key := MonthKey(studioID, year, month)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, asOf, raw)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("availability cache write failed")
	}
}

// Invalidate drops the cached months containing the given local dates.
func (c *MonthCache) Invalidate(ctx context.Context, studioID uuid.UUID, dates ...time.Time) {
	if c == nil || c.client == nil || len(dates) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(dates))
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		k := MonthKey(studioID, d.Year(), d.Month())
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("availability cache invalidation failed")
	}
}

// InvalidateStudio drops every cached month of the studio.
func (c *MonthCache) InvalidateStudio(ctx context.Context, studioID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, studioPattern(studioID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("availability cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("availability cache invalidation failed")
	}
}
