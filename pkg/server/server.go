package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/server/handler"
	"github.com/rafaelmv/presenteio/pkg/server/middleware"
	"github.com/rafaelmv/presenteio/pkg/service"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
)

func New(addr string, giftSvc service.Gift, listSvc service.List, ids identity.Resolver) (*http.Server, error) {
	mux := http.NewServeMux()

	mux.Handle("/reserve", handler.GiftReserve(giftSvc))

	mux.Handle("/lists/view", handler.ListView(listSvc))
	mux.Handle("/lists", handler.ListPage(listSvc, ids))
	mux.Handle("/lists/create", handler.ListCreate(listSvc, ids))
	mux.Handle("/lists/update", handler.ListUpdate(listSvc, ids))
	mux.Handle("/lists/delete", handler.ListDelete(listSvc, ids))

	mux.Handle("/gifts/create", handler.GiftCreate(giftSvc, ids))
	mux.Handle("/gifts/update", handler.GiftUpdate(giftSvc, ids))
	mux.Handle("/gifts/delete", handler.GiftDelete(giftSvc, ids))
	mux.Handle("/gifts/release", handler.GiftRelease(giftSvc, ids))

	mux.Handle("/metrics", promhttp.Handler())

	chain := middleware.Chain{
		middleware.Log,
		middleware.Metrics,
		middleware.Recovery,
	}

	return &http.Server{
		Addr:         addr,
		Handler:      chain.Then(mux),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}, nil
}
