package moderation

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

const watermarkKey = "confession:lastseen"

// Watermark tracks the highest row index already surfaced to a moderator.
// It never decreases: concurrent advances resolve via max under the mutex.
// The value is mirrored to Redis so a restart picks up where the last
// process stopped; the in-memory copy stays authoritative while running.
type Watermark struct {
	mu       sync.Mutex
	lastSeen int
	rdb      *redis.Client
}

// NewWatermark seeds the tracker from Redis, falling back to baseline when
// no stored value exists (or no Redis client was given).
func NewWatermark(ctx context.Context, rdb *redis.Client, baseline int) *Watermark {
	if baseline < 1 {
		baseline = 1
	}
	w := &Watermark{lastSeen: baseline, rdb: rdb}
	if rdb == nil {
		return w
	}
	val, err := rdb.Get(ctx, watermarkKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("watermark: redis load: %v (using baseline %d)", err, baseline)
		}
		return w
	}
	if n, err := strconv.Atoi(val); err == nil && n > w.lastSeen {
		w.lastSeen = n
	}
	return w
}

// Current returns the highest row index surfaced so far.
func (w *Watermark) Current() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Advance records that rowsScanned rows starting at startRow were looked at
// and returns the new watermark. Repeating the same input is a no-op and
// the watermark never moves backwards.
func (w *Watermark) Advance(ctx context.Context, startRow, rowsScanned int) int {
	w.mu.Lock()
	if v := startRow + rowsScanned; v > w.lastSeen {
		w.lastSeen = v
	}
	cur := w.lastSeen
	w.mu.Unlock()

	w.persist(ctx, cur)
	return cur
}

// Seed force-sets the watermark, including backwards. Operator override
// only; normal operation goes through Advance.
func (w *Watermark) Seed(ctx context.Context, value int) {
	if value < 1 {
		value = 1
	}
	w.mu.Lock()
	w.lastSeen = value
	w.mu.Unlock()

	w.persist(ctx, value)
}

func (w *Watermark) persist(ctx context.Context, value int) {
	if w.rdb == nil {
		return
	}
	if err := w.rdb.Set(ctx, watermarkKey, strconv.Itoa(value), 0).Err(); err != nil {
		log.Printf("watermark: redis persist: %v", err)
	}
}
