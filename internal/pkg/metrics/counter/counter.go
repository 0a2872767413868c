// Package counter buffers business profile views in Redis and flushes them
// to the database in batches.
package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/cache"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
)

const (
	businessViewsKey = "business:counters:views"

	DefaultFlushInterval = time.Minute
)

// AddBusinessView increments the pending view counter of a business.
// It is a no-op when the cache is disabled.
func AddBusinessView(ctx context.Context, businessID uint) error {
	rdb := cache.GetClient()
	if rdb == nil {
		return nil
	}
	field := strconv.FormatUint(uint64(businessID), 10)
	return rdb.HIncrBy(ctx, businessViewsKey, field, 1).Err()
}

// Flush drains the pending views into businesses.view_count and returns the
// number of businesses updated.
func Flush(ctx context.Context, db *gorm.DB) (int, error) {
	rdb := cache.GetClient()
	if rdb == nil {
		return 0, nil
	}
	return flushHashToTable(ctx, rdb, db, businessViewsKey, "businesses", "view_count")
}

// Start runs the flusher in its own goroutine. The returned channel is closed
// once the final flush after ctx cancellation has finished.
func Start(ctx context.Context, db *gorm.DB, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, db, interval)
	}()
	return done
}

// Run flushes every interval until ctx is cancelled.
func Run(ctx context.Context, db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	log := logger.Named("counter")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// last drain with a fresh context so views are not lost on shutdown
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, err := Flush(flushCtx, db); err != nil {
				log.Warn("final view flush failed", zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
			n, err := Flush(ctx, db)
			if err != nil {
				log.Warn("view flush failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("flushed business views", zap.Int("businesses", n))
			}
		}
	}
}

// flushHashToTable drains a Redis hash and applies the increments in one
// UPDATE. The hash is renamed first so views counted meanwhile go to a new hash.
func flushHashToTable(ctx context.Context, rdb *redis.Client, db *gorm.DB, redisKey, table, column string) (int, error) {
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Rename(ctx, redisKey, tmpKey).Err(); err != nil {
		if err == redis.Nil || strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return 0, nil
		}
		return 0, err
	}
	defer rdb.Del(context.WithoutCancel(ctx), tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return 0, err
	}

	type pair struct {
		id  uint64
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: id, inc: inc})
	}
	if len(pairs) == 0 {
		return 0, nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE <table> SET <column> = <column> + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" ELSE 0 END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	if err := db.WithContext(ctx).Exec(builder.String(), args...).Error; err != nil {
		return 0, err
	}
	return len(pairs), nil
}
