package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studiobooking/internal/pkg/slots"
)

func TestMonthKey(t *testing.T) {
	id := uuid.MustParse("6f1c1f53-8a4c-4a63-9a3b-0d5c1f0b7e11")
	assert.Equal(t, "availability:6f1c1f53-8a4c-4a63-9a3b-0d5c1f0b7e11:2025-03", MonthKey(id, 2025, time.March))
}

func TestAsOfHasMinuteResolution(t *testing.T) {
	a := AsOf(time.Date(2025, time.March, 4, 12, 30, 10, 0, time.UTC))
	b := AsOf(time.Date(2025, time.March, 4, 12, 30, 59, 0, time.UTC))
	assert.Equal(t, "2025-03-04T12:30", a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, AsOf(time.Date(2025, time.March, 4, 12, 31, 0, 0, time.UTC)))
}

func TestNilClientIsAlwaysAMiss(t *testing.T) {
	c := NewMonthCache(nil, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	asOf := AsOf(time.Date(2025, time.March, 4, 12, 30, 0, 0, time.UTC))
	c.Set(ctx, id, 2025, time.March, asOf, []slots.DayAvailability{{Date: "2025-03-01"}})
	_, ok := c.Get(ctx, id, 2025, time.March, asOf)
	assert.False(t, ok)

	c.Invalidate(ctx, id, time.Now())
	c.InvalidateStudio(ctx, id)

	var nilCache *MonthCache
	_, ok = nilCache.Get(ctx, id, 2025, time.March, asOf)
	assert.False(t, ok)
	nilCache.InvalidateStudio(ctx, id)
}
