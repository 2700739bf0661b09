package freeintervals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

const defaultPrefix = "btr:free"

// Client подмножество команд redis, нужное кешу (*redis.Client подходит)
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Cache свободные интервалы по датам. Только для публичного чтения:
// расчеты внутри транзакций записи кеш не используют.
type Cache struct {
	rdb    Client
	ttl    time.Duration
	prefix string
}

func New(rdb Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

// Ключи данных включают версию: эпоху (InvalidateAll) и поколение даты
// (Invalidate). Сброс только увеличивает счетчики, так что запись,
// рассчитанная до сброса, ложится под старую версию и больше не читается.
func (c *Cache) epochKey() string {
	return c.prefix + ":epoch"
}

func (c *Cache) genKey(date time.Time) string {
	return c.prefix + ":gen:" + date.Format(domain.DateFormat)
}

func (c *Cache) key(date time.Time, version string) string {
	return c.prefix + ":" + date.Format(domain.DateFormat) + ":" + version
}

func (c *Cache) version(ctx context.Context, date time.Time) (string, error) {
	vals, err := c.rdb.MGet(ctx, c.epochKey(), c.genKey(date)).Result()
	if err != nil {
		return "", fmt.Errorf("get free intervals version: %w", err)
	}
	parts := make([]string, 2)
	for i := range parts {
		parts[i] = "0"
		if i < len(vals) {
			if s, ok := vals[i].(string); ok && s != "" {
				parts[i] = s
			}
		}
	}
	return parts[0] + "." + parts[1], nil
}

// Get ok = false при промахе. version нужно передать в Set при заполнении.
func (c *Cache) Get(ctx context.Context, date time.Time) ([]domain.Interval, string, bool, error) {
	version, err := c.version(ctx, date)
	if err != nil {
		return nil, "", false, err
	}

	raw, err := c.rdb.Get(ctx, c.key(date, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("get free intervals: %w", err)
	}

	free := make([]domain.Interval, 0)
	if err := json.Unmarshal(raw, &free); err != nil {
		return nil, version, false, fmt.Errorf("decode free intervals: %w", err)
	}
	return free, version, true, nil
}

// Set пишет под версию, прочитанную в Get до расчета
func (c *Cache) Set(ctx context.Context, date time.Time, version string, free []domain.Interval) error {
	if version == "" {
		return errors.New("set free intervals: empty version")
	}
	raw, err := json.Marshal(free)
	if err != nil {
		return fmt.Errorf("encode free intervals: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(date, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set free intervals: %w", err)
	}
	return nil
}

// Invalidate сбрасывает кеш на даты
func (c *Cache) Invalidate(ctx context.Context, dates ...time.Time) error {
	for _, d := range dates {
		if err := c.rdb.Incr(ctx, c.genKey(d)).Err(); err != nil {
			return fmt.Errorf("invalidate free intervals: %w", err)
		}
	}
	return nil
}

// InvalidateAll сбрасывает кеш целиком (смена расписания)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.epochKey()).Err(); err != nil {
		return fmt.Errorf("invalidate free intervals: %w", err)
	}
	return nil
}
