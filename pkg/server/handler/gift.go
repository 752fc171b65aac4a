package handler

import (
	"net/http"

	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/model"
	"github.com/rafaelmv/presenteio/pkg/service"
)

// GiftReserve is the anonymous claim endpoint. No identity is resolved here:
// holding the list's link is the only capability a guest needs.
func GiftReserve(svc service.Gift) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			GiftID       string `json:"gift_id"`
			ReserverName string `json:"reserver_name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if req.GiftID == "" {
			http.Error(w, "no gift_id provided", http.StatusBadRequest)
			return
		}

		gift, err := svc.Reserve(r.Context(), req.GiftID, req.ReserverName)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, gift)
	}
}

func GiftCreate(svc service.Gift, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req struct {
			ListID      string `json:"list_id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			ImageURL    string `json:"image_url"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		gift := model.Gift{
			ListID:      req.ListID,
			Name:        req.Name,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}

		if err := svc.Create(r.Context(), account.ID, &gift); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, gift)
	}
}

func GiftUpdate(svc service.Gift, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req struct {
			GiftID      string `json:"gift_id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			ImageURL    string `json:"image_url"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.Update(r.Context(), account.ID, req.GiftID, req.Name, req.Description, req.ImageURL); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GiftDelete(svc service.Gift, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req struct {
			GiftID string `json:"gift_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.Delete(r.Context(), account.ID, req.GiftID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GiftRelease returns a reserved gift to available. Owner-only: guests have no
// self-service cancellation.
func GiftRelease(svc service.Gift, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req struct {
			GiftID string `json:"gift_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.Release(r.Context(), account.ID, req.GiftID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
