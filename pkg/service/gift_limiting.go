package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rafaelmv/presenteio/pkg/limiter"
	"github.com/rafaelmv/presenteio/pkg/model"
)

var ErrLimitExceeded = errors.New("guest exceeded reservation attempts limit")

// GiftLimiting is a wrapper over Gift service which makes sure that a single guest
// can make no more than Limiter.Limit reservation attempts per hour.
//
// If failed to check limits, the behavior depends on FailOpen flag. If set, current
// request is allowed. Otherwise, an error will be returned.
type GiftLimiting struct {
	Gift

	Limiter  *limiter.Limiter
	FailOpen bool
}

func (gl *GiftLimiting) Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error) {
	guest := limiter.NormalizeGuest(reserverName)
	if guest == "" {
		// Nothing to key on; let validation below reject the name.
		return gl.Gift.Reserve(ctx, giftID, reserverName)
	}

	exceeded, err := gl.Limiter.LimitExceeded(ctx, guest)
	if err != nil {
		if !gl.FailOpen {
			return model.Gift{}, fmt.Errorf("can't check if limit exceeded: %w", err)
		}

		slog.Error("can't check if limit exceeded", slog.Any("error", err))
	}

	if exceeded {
		return model.Gift{}, ErrLimitExceeded
	}

	gift, err := gl.Gift.Reserve(ctx, giftID, reserverName)

	// Both wins and conflicts count against the guest; validation misses don't.
	if err == nil || errors.Is(err, model.ErrAlreadyReserved) {
		if _, incErr := gl.Limiter.Increment(ctx, guest); incErr != nil {
			slog.Error("can't increment guest's counter", slog.Any("error", incErr))
		}
	}

	return gift, err
}
