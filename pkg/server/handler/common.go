package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/model"
	"github.com/rafaelmv/presenteio/pkg/service"
)

type ListPageResp[T any] struct {
	Page  []T `json:"page"`
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("can't encode response: %v", err), http.StatusInternalServerError)
	}
}

// writeError maps expected service outcomes onto statuses. Validation failures
// carry the failing field so the form can highlight it; everything else is plain text.
func writeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError

	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(verr)
	case errors.Is(err, identity.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, model.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrAlreadyReserved):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrLimitExceeded):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("can't parse request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST method allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "only GET method allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
