package notify

import (
	"context"
	"log/slog"
)

// Reservation is what the list owner is told when a guest claims a gift.
type Reservation struct {
	GiftName     string
	ReserverName string
	ListTitle    string
	OwnerEmail   string
	ListURL      string
}

// Notifier delivers reservation notices. Delivery runs after the reservation is
// committed, so a failure here never rolls anything back; callers log and move on.
type Notifier interface {
	ReservationMade(ctx context.Context, r Reservation) error
}

// LogNotifier writes the notice to the log instead of delivering it. A real
// channel (email etc.) can replace it without touching the reservation flow.
type LogNotifier struct{}

func (LogNotifier) ReservationMade(_ context.Context, r Reservation) error {
	slog.Info("gift reserved",
		slog.String("to", r.OwnerEmail),
		slog.String("gift", r.GiftName),
		slog.String("reserver", r.ReserverName),
		slog.String("list", r.ListTitle),
		slog.String("list_url", r.ListURL),
	)

	return nil
}
