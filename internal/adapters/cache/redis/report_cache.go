package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/config"
)

// stringStore は ReportCache が使う go-redis コマンドの部分集合です。
type stringStore interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// ReportCache は週次集計を JSON として Redis に保存します。
type ReportCache struct {
	rdb    stringStore
	prefix string
}

// NewClient は設定から Redis クライアントを生成し、疎通確認を行います。
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// NewReportCache は ReportCache を生成します。prefix はキーの先頭に付与されます。
func NewReportCache(rdb stringStore, prefix string) *ReportCache {
	return &ReportCache{rdb: rdb, prefix: prefix}
}

// Get はキャッシュ済みの集計を返します。存在しない場合は weeklystatus.ErrCacheMiss を返します。
func (c *ReportCache) Get(ctx context.Context, key string) (*weeklystatus.Report, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, weeklystatus.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}

	var report weeklystatus.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("redis: decode report %s: %w", key, err)
	}
	return &report, nil
}

// Set は集計を ttl 付きで保存します。
func (c *ReportCache) Set(ctx context.Context, key string, report *weeklystatus.Report, ttl time.Duration) error {
	if report == nil {
		return fmt.Errorf("redis: report is required")
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis: encode report %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
