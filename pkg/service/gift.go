package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/model"
	"github.com/rafaelmv/presenteio/pkg/notify"
)

type Gift interface {
	// Reserve claims the gift for an anonymous guest. It is the sole path from
	// available to reserved; calling it on a reserved gift always fails, even
	// under the winner's exact name.
	Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error)

	Create(ctx context.Context, ownerID string, g *model.Gift) error
	Update(ctx context.Context, ownerID, giftID, name, description, imageURL string) error
	Delete(ctx context.Context, ownerID, giftID string) error
	Release(ctx context.Context, ownerID, giftID string) error

	ListByList(ctx context.Context, listID string) ([]model.Gift, error)
}

// GiftGeneric represents an implementation of Gift interface containing core logics
// which can be wrapped in other implementations contained in gift_*.go.
type GiftGeneric struct {
	GiftRepository database.GiftRepository
	ListRepository database.ListRepository
	Notifier       notify.Notifier
	BaseURL        string
}

func (gg *GiftGeneric) Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error) {
	name, err := model.ValidateReserverName(reserverName)
	if err != nil {
		return model.Gift{}, err
	}

	if err := gg.GiftRepository.Reserve(ctx, giftID, name, time.Now()); err != nil {
		return model.Gift{}, fmt.Errorf("can't reserve gift in DB: %w", err)
	}

	gift, err := gg.GiftRepository.Get(ctx, giftID)
	if err != nil {
		// The claim is committed; losing the read-back afterwards doesn't undo it.
		slog.Error("can't load gift after reservation", slog.String("gift_id", giftID), slog.Any("error", err))

		gift = model.Gift{Base: model.Base{ID: giftID}, ReserverName: name}
		return gift, nil
	}

	gg.notifyReserved(ctx, gift)

	return gift, nil
}

func (gg *GiftGeneric) notifyReserved(ctx context.Context, gift model.Gift) {
	list, err := gg.ListRepository.Get(ctx, gift.ListID)
	if err != nil {
		slog.Error("can't load list for reservation notice", slog.String("list_id", gift.ListID), slog.Any("error", err))
		return
	}

	n := notify.Reservation{
		GiftName:     gift.Name,
		ReserverName: gift.ReserverName,
		ListTitle:    list.Title,
		OwnerEmail:   list.OwnerEmail,
		ListURL:      gg.BaseURL + "/l/" + list.ID,
	}

	if err := gg.Notifier.ReservationMade(ctx, n); err != nil {
		slog.Error("can't send reservation notice", slog.Any("error", err))
	}
}

func (gg *GiftGeneric) Create(ctx context.Context, ownerID string, g *model.Gift) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if err := gg.authorize(ctx, ownerID, g.ListID); err != nil {
		return err
	}

	return gg.GiftRepository.Insert(ctx, g)
}

func (gg *GiftGeneric) Update(ctx context.Context, ownerID, giftID, name, description, imageURL string) error {
	upd := model.Gift{Name: name, Description: description, ImageURL: imageURL}
	if err := upd.Validate(); err != nil {
		return err
	}

	gift, err := gg.GiftRepository.Get(ctx, giftID)
	if err != nil {
		return err
	}

	if err := gg.authorize(ctx, ownerID, gift.ListID); err != nil {
		return err
	}

	return gg.GiftRepository.Update(ctx, giftID, upd.Name, upd.Description, upd.ImageURL)
}

func (gg *GiftGeneric) Delete(ctx context.Context, ownerID, giftID string) error {
	gift, err := gg.GiftRepository.Get(ctx, giftID)
	if err != nil {
		return err
	}

	if err := gg.authorize(ctx, ownerID, gift.ListID); err != nil {
		return err
	}

	return gg.GiftRepository.Delete(ctx, giftID)
}

func (gg *GiftGeneric) Release(ctx context.Context, ownerID, giftID string) error {
	gift, err := gg.GiftRepository.Get(ctx, giftID)
	if err != nil {
		return err
	}

	if err := gg.authorize(ctx, ownerID, gift.ListID); err != nil {
		return err
	}

	return gg.GiftRepository.Release(ctx, giftID)
}

func (gg *GiftGeneric) ListByList(ctx context.Context, listID string) ([]model.Gift, error) {
	return gg.GiftRepository.ListByList(ctx, listID)
}

func (gg *GiftGeneric) authorize(ctx context.Context, ownerID, listID string) error {
	list, err := gg.ListRepository.Get(ctx, listID)
	if err != nil {
		return err
	}

	if list.OwnerID != ownerID {
		return model.ErrForbidden
	}

	return nil
}
