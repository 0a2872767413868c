package statistics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/cache"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
)

const (
	CacheKeyBusinesses      = "statistics:businesses:total"
	CacheKeyBookings        = "statistics:bookings:total"
	CacheKeyPendingUpgrades = "statistics:upgrades:pending"
	CacheKeyUsers           = "statistics:users:total"
	CacheExpiration         = 5 * time.Minute
)

// Data holds the admin dashboard counters
type Data struct {
	Businesses      int64
	Bookings        int64
	PendingUpgrades int64
	Users           int64
}

type counter struct {
	key   string
	count func(db *gorm.DB) (int64, error)
	dst   func(d *Data) *int64
}

var counters = []counter{
	{CacheKeyBusinesses, countModel(&models.Business{}, ""), func(d *Data) *int64 { return &d.Businesses }},
	{CacheKeyBookings, countModel(&models.Booking{}, ""), func(d *Data) *int64 { return &d.Bookings }},
	{CacheKeyPendingUpgrades, countModel(&models.PlanUpgradeRequest{}, models.UpgradeStatusPending), func(d *Data) *int64 { return &d.PendingUpgrades }},
	{CacheKeyUsers, countModel(&models.User{}, ""), func(d *Data) *int64 { return &d.Users }},
}

func countModel(model interface{}, status string) func(db *gorm.DB) (int64, error) {
	return func(db *gorm.DB) (int64, error) {
		var n int64
		q := db.Model(model)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		err := q.Count(&n).Error
		return n, err
	}
}

// Get returns the admin counters. Cached values are used when present;
// missing ones are counted live and written back for CacheExpiration.
func Get(ctx context.Context, db *gorm.DB) (Data, error) {
	var d Data
	for _, c := range counters {
		if v, err := cache.GetInt64(ctx, c.key); err == nil {
			*c.dst(&d) = v
			continue
		} else if !errors.Is(err, cache.ErrDisabled) && !errors.Is(err, cache.ErrMiss) {
			logger.Named("statistics").Warn("cache read failed", zap.String("key", c.key), zap.Error(err))
		}

		n, err := c.count(db.WithContext(ctx))
		if err != nil {
			return d, err
		}
		*c.dst(&d) = n
		if err := cache.Set(ctx, c.key, strconv.FormatInt(n, 10), CacheExpiration); err != nil && !errors.Is(err, cache.ErrDisabled) {
			logger.Named("statistics").Warn("cache write failed", zap.String("key", c.key), zap.Error(err))
		}
	}
	return d, nil
}

// Invalidate drops the cached counters, e.g. after an upgrade was resolved.
func Invalidate(ctx context.Context) {
	keys := make([]string, 0, len(counters))
	for _, c := range counters {
		keys = append(keys, c.key)
	}
	if err := cache.Delete(ctx, keys...); err != nil && !errors.Is(err, cache.ErrDisabled) {
		logger.Named("statistics").Warn("cache invalidation failed", zap.Error(err))
	}
}
