package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/model"
)

type fakeGiftService struct {
	reserve func(ctx context.Context, giftID, reserverName string) (model.Gift, error)
	release func(ctx context.Context, ownerID, giftID string) error
}

func (f *fakeGiftService) Reserve(ctx context.Context, giftID, reserverName string) (model.Gift, error) {
	return f.reserve(ctx, giftID, reserverName)
}

func (f *fakeGiftService) Create(context.Context, string, *model.Gift) error { return nil }

func (f *fakeGiftService) Update(context.Context, string, string, string, string, string) error {
	return nil
}

func (f *fakeGiftService) Delete(context.Context, string, string) error { return nil }

func (f *fakeGiftService) Release(ctx context.Context, ownerID, giftID string) error {
	return f.release(ctx, ownerID, giftID)
}

func (f *fakeGiftService) ListByList(context.Context, string) ([]model.Gift, error) { return nil, nil }

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reserve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGiftReserveSuccess(t *testing.T) {
	svc := &fakeGiftService{
		reserve: func(_ context.Context, giftID, reserverName string) (model.Gift, error) {
			return model.Gift{Base: model.Base{ID: giftID}, Name: "Fraldas", ReserverName: reserverName}, nil
		},
	}

	rec := postJSON(GiftReserve(svc), `{"gift_id":"gift-1","reserver_name":"Ana"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var gift model.Gift
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gift))
	assert.Equal(t, "gift-1", gift.ID)
	assert.Equal(t, "Ana", gift.ReserverName)
}

func TestGiftReserveConflict(t *testing.T) {
	svc := &fakeGiftService{
		reserve: func(context.Context, string, string) (model.Gift, error) {
			return model.Gift{}, model.ErrAlreadyReserved
		},
	}

	rec := postJSON(GiftReserve(svc), `{"gift_id":"gift-1","reserver_name":"Beatriz"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGiftReserveValidationFailure(t *testing.T) {
	svc := &fakeGiftService{
		reserve: func(_ context.Context, _, name string) (model.Gift, error) {
			_, err := model.ValidateReserverName(name)
			return model.Gift{}, err
		},
	}

	rec := postJSON(GiftReserve(svc), `{"gift_id":"gift-1","reserver_name":" "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var verr model.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Equal(t, "reserver_name", verr.Field)
	assert.Contains(t, verr.Message, "obrigatório")
}

func TestGiftReserveNotFound(t *testing.T) {
	svc := &fakeGiftService{
		reserve: func(context.Context, string, string) (model.Gift, error) {
			return model.Gift{}, database.ErrNotFound
		},
	}

	rec := postJSON(GiftReserve(svc), `{"gift_id":"missing","reserver_name":"Ana"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGiftReserveRequiresPost(t *testing.T) {
	svc := &fakeGiftService{}

	req := httptest.NewRequest(http.MethodGet, "/reserve", nil)
	rec := httptest.NewRecorder()
	GiftReserve(svc)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGiftReserveRequiresGiftID(t *testing.T) {
	svc := &fakeGiftService{}

	rec := postJSON(GiftReserve(svc), `{"reserver_name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGiftReleaseRequiresIdentity(t *testing.T) {
	svc := &fakeGiftService{
		release: func(context.Context, string, string) error { return nil },
	}

	req := httptest.NewRequest(http.MethodPost, "/gifts/release", strings.NewReader(`{"gift_id":"gift-1"}`))
	rec := httptest.NewRecorder()
	GiftRelease(svc, identity.NewHeader())(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGiftReleaseForbiddenForStrangers(t *testing.T) {
	svc := &fakeGiftService{
		release: func(_ context.Context, ownerID, _ string) error {
			if ownerID != "owner-1" {
				return model.ErrForbidden
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/gifts/release", strings.NewReader(`{"gift_id":"gift-1"}`))
	req.Header.Set("X-Account-ID", "someone-else")
	rec := httptest.NewRecorder()
	GiftRelease(svc, identity.NewHeader())(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
