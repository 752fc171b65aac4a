package service

import (
	"context"
	"time"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/model"
)

const (
	DefaultPageNum  = 1
	DefaultPageSize = 20
)

type List interface {
	Create(ctx context.Context, owner model.Account, l *model.List) error
	Update(ctx context.Context, ownerID, listID, title, description string, public bool, eventDate *time.Time) error
	Delete(ctx context.Context, ownerID, listID string) error

	// View is the public read used by guests holding the list's link.
	View(ctx context.Context, listID string) (model.List, []model.Gift, error)
	PageByOwner(ctx context.Context, ownerID string, pageNum, pageSize int) ([]model.List, int, error)
}

type ListGeneric struct {
	ListRepository database.ListRepository
	GiftRepository database.GiftRepository
}

func (lg *ListGeneric) Create(ctx context.Context, owner model.Account, l *model.List) error {
	l.OwnerID = owner.ID
	l.OwnerEmail = owner.Email

	if err := l.Validate(); err != nil {
		return err
	}

	return lg.ListRepository.Insert(ctx, l)
}

func (lg *ListGeneric) Update(ctx context.Context, ownerID, listID, title, description string, public bool, eventDate *time.Time) error {
	upd := model.List{Title: title, Description: description, Public: public, EventDate: eventDate}
	if err := upd.Validate(); err != nil {
		return err
	}

	if err := lg.authorize(ctx, ownerID, listID); err != nil {
		return err
	}

	return lg.ListRepository.Update(ctx, listID, upd.Title, upd.Description, upd.Public, upd.EventDate)
}

func (lg *ListGeneric) Delete(ctx context.Context, ownerID, listID string) error {
	if err := lg.authorize(ctx, ownerID, listID); err != nil {
		return err
	}

	return lg.ListRepository.Delete(ctx, listID)
}

func (lg *ListGeneric) View(ctx context.Context, listID string) (model.List, []model.Gift, error) {
	list, err := lg.ListRepository.Get(ctx, listID)
	if err != nil {
		return model.List{}, nil, err
	}

	gifts, err := lg.GiftRepository.ListByList(ctx, listID)
	if err != nil {
		return model.List{}, nil, err
	}

	return list, gifts, nil
}

func (lg *ListGeneric) PageByOwner(ctx context.Context, ownerID string, pageNum, pageSize int) ([]model.List, int, error) {
	return lg.ListRepository.GetPageByOwner(ctx, ownerID, pageNum, pageSize)
}

func (lg *ListGeneric) authorize(ctx context.Context, ownerID, listID string) error {
	list, err := lg.ListRepository.Get(ctx, listID)
	if err != nil {
		return err
	}

	if list.OwnerID != ownerID {
		return model.ErrForbidden
	}

	return nil
}
