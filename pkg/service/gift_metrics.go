package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/model"
)

var reservationOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "presenteio",
		Subsystem: "gifts",
		Name:      "reservation_outcomes_total",
		Help:      "Reservation attempts by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(reservationOutcomes)
}

type GiftMetrics struct {
	Gift
}

func (gm *GiftMetrics) Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error) {
	gift, err := gm.Gift.Reserve(ctx, giftID, reserverName)
	reservationOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
	return gift, err
}

func outcomeLabel(err error) string {
	var verr *model.ValidationError

	switch {
	case err == nil:
		return "reserved"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, model.ErrAlreadyReserved):
		return "conflict"
	case errors.Is(err, database.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrLimitExceeded):
		return "limited"
	default:
		return "error"
	}
}
