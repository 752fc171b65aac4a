package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/model"
	"github.com/rafaelmv/presenteio/pkg/service"
)

type listViewResp struct {
	List  model.List   `json:"list"`
	Gifts []model.Gift `json:"gifts"`
}

// ListView is the public page guests open from the shared link. Callers are
// expected to re-fetch it after any reservation outcome to keep availability fresh.
func ListView(svc service.List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}

		listID := r.URL.Query().Get("list_id")
		if listID == "" {
			http.Error(w, "no list_id provided", http.StatusBadRequest)
			return
		}

		list, gifts, err := svc.View(r.Context(), listID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, listViewResp{List: list, Gifts: gifts})
	}
}

func ListPage(svc service.List, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var (
			q        = r.URL.Query()
			pageNum  = service.DefaultPageNum
			pageSize = service.DefaultPageSize
		)

		if pn := q.Get("page_num"); pn != "" {
			pageNum, err = strconv.Atoi(pn)
			if err != nil {
				http.Error(w, fmt.Sprintf("can't parse page_num: %v", err), http.StatusBadRequest)
				return
			}
		}

		if ps := q.Get("page_size"); ps != "" {
			pageSize, err = strconv.Atoi(ps)
			if err != nil {
				http.Error(w, fmt.Sprintf("can't parse page_size: %v", err), http.StatusBadRequest)
				return
			}
		}

		var resp ListPageResp[model.List]

		resp.Page, resp.Total, err = svc.PageByOwner(r.Context(), account.ID, pageNum, pageSize)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, resp)
	}
}

type listPayload struct {
	ListID      string `json:"list_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Public      bool   `json:"is_public"`
	EventDate   string `json:"event_date"` // YYYY-MM-DD, optional
}

func (p *listPayload) eventDate() (*time.Time, error) {
	if p.EventDate == "" {
		return nil, nil
	}

	d, err := time.ParseInLocation("2006-01-02", p.EventDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("can't parse event_date: %w", err)
	}

	return &d, nil
}

func ListCreate(svc service.List, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req listPayload
		if !decodeBody(w, r, &req) {
			return
		}

		eventDate, err := req.eventDate()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		list := model.List{
			Title:       req.Title,
			Description: req.Description,
			Public:      req.Public,
			EventDate:   eventDate,
		}

		if err := svc.Create(r.Context(), account, &list); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, list)
	}
}

func ListUpdate(svc service.List, ids identity.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		account, err := ids.CurrentAccount(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req listPayload
		if !decodeBody(w, r, &req) {
			return
		}

		eventDate, err := req.eventDate()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := svc.Update(r.Context(), account.ID, req.ListID, req.Title, req.Description, req.Public, eventDate); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ListDelete(svc service.List, ids identity.Resolver) http.HandlerFunc {
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
			ListID string `json:"list_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.Delete(r.Context(), account.ID, req.ListID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
