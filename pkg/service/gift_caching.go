package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafaelmv/presenteio/pkg/model"
)

const reservedKeyPrefix = "reserved:"

// GiftCaching is a caching layer which is intended to be called before GiftGeneric.
// It keeps reserved gift ids in redis so that repeat attempts against a taken gift
// are answered without touching the database. Cache misses and redis errors fall
// through to the slower DB path; the conditional write there stays the source of
// truth, so the cache can only ever short-circuit a conflict, never invent a win.
type GiftCaching struct {
	Gift

	Redis *redis.Client
	TTL   time.Duration
}

func (gc *GiftCaching) Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error) {
	key := reservedCacheKey(giftID)

	_, err := gc.Redis.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// do nothing
	case err != nil:
		slog.Error("can't get reservation info from redis", slog.Any("error", err))

	default:
		return model.Gift{}, model.ErrAlreadyReserved
	}

	gift, err := gc.Gift.Reserve(ctx, giftID, reserverName)

	switch {
	case err == nil:
		if setErr := gc.Redis.Set(ctx, key, gift.ReserverName, gc.TTL).Err(); setErr != nil {
			slog.Error("can't set reservation info in redis", slog.Any("error", setErr))
		}
	case errors.Is(err, model.ErrAlreadyReserved):
		if setErr := gc.Redis.Set(ctx, key, "", gc.TTL).Err(); setErr != nil {
			slog.Error("can't set reservation info in redis", slog.Any("error", setErr))
		}
	}

	return gift, err
}

func (gc *GiftCaching) Release(ctx context.Context, ownerID, giftID string) error {
	if err := gc.Gift.Release(ctx, ownerID, giftID); err != nil {
		return err
	}

	gc.invalidate(ctx, giftID)
	return nil
}

func (gc *GiftCaching) Delete(ctx context.Context, ownerID, giftID string) error {
	if err := gc.Gift.Delete(ctx, ownerID, giftID); err != nil {
		return err
	}

	gc.invalidate(ctx, giftID)
	return nil
}

func (gc *GiftCaching) invalidate(ctx context.Context, giftID string) {
	if err := gc.Redis.Del(ctx, reservedCacheKey(giftID)).Err(); err != nil {
		slog.Error("can't invalidate reservation info in redis", slog.Any("error", err))
	}
}

func reservedCacheKey(giftID string) string {
	return reservedKeyPrefix + giftID
}
