package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rafaelmv/presenteio/pkg/model"
)

type GiftLogging struct {
	Gift
}

func (gl *GiftLogging) Reserve(ctx context.Context, giftID, reserverName string) (gift model.Gift, err error) {
	defer func(t0 time.Time) {
		log := slog.With(
			slog.String("gift_id", giftID),
			slog.String("reserver", "HIDDEN"),
			slog.String("delay", time.Since(t0).String()),
		)

		if err != nil {
			log.Debug("failed to reserve gift", slog.Any("error", err))
		} else {
			log.Debug("gift reserved")
		}
	}(time.Now())

	return gl.Gift.Reserve(ctx, giftID, reserverName)
}

func (gl *GiftLogging) Release(ctx context.Context, ownerID, giftID string) (err error) {
	defer func(t0 time.Time) {
		log := slog.With(
			slog.String("gift_id", giftID),
			slog.String("delay", time.Since(t0).String()),
		)

		if err != nil {
			log.Error("failed to release gift", slog.Any("error", err))
		} else {
			log.Debug("gift released")
		}
	}(time.Now())

	return gl.Gift.Release(ctx, ownerID, giftID)
}

func (gl *GiftLogging) Delete(ctx context.Context, ownerID, giftID string) (err error) {
	defer func(t0 time.Time) {
		log := slog.With(
			slog.String("gift_id", giftID),
			slog.String("delay", time.Since(t0).String()),
		)

		if err != nil {
			log.Error("failed to delete gift", slog.Any("error", err))
		} else {
			log.Debug("gift deleted")
		}
	}(time.Now())

	return gl.Gift.Delete(ctx, ownerID, giftID)
}
