package limiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "limiter:"

const redisTimeout = 300 * time.Millisecond

// Limiter bounds reservation attempts per guest per hour. Guests are anonymous,
// so the key is the normalized reserver name, which is the only handle they give us.
type Limiter struct {
	Redis *redis.Client
	Limit int
}

func (l *Limiter) Increment(ctx context.Context, guest string) (int, error) {
	key := guestCounterKey(guest)

	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	val, err := l.Redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("can't increment guest's counter: %w", err)
	}

	if val == 1 {
		if err := l.Redis.Expire(ctx, key, time.Hour).Err(); err != nil {
			return 0, fmt.Errorf("can't set counter expiration: %w", err)
		}
	}

	return int(val), nil
}

func (l *Limiter) LimitExceeded(ctx context.Context, guest string) (bool, error) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	c, err := l.Redis.Get(ctx, guestCounterKey(guest)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, err
	}

	return c > l.Limit, nil
}

// NormalizeGuest collapses whitespace and case so "Ana  Silva" and "ana silva"
// share one counter.
func NormalizeGuest(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// guestCounterKey holds the count of a guest's reservation attempts within the
// current hour window.
func guestCounterKey(guest string) string {
	now := time.Now().Truncate(time.Hour).Unix()
	return cacheKeyPrefix + guest + ":" + strconv.FormatInt(now, 10)
}
