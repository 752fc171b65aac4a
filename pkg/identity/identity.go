package identity

import (
	"errors"
	"net/http"

	"github.com/rafaelmv/presenteio/pkg/model"
)

var ErrUnauthenticated = errors.New("no authenticated account")

// Resolver reports the account already authenticated by the layer in front of
// this service. Nothing here verifies credentials; reservation endpoints never
// consult identity at all.
type Resolver interface {
	CurrentAccount(r *http.Request) (model.Account, error)
}

// Header trusts identity headers injected by the auth proxy.
type Header struct {
	IDHeader    string
	EmailHeader string
}

func NewHeader() Header {
	return Header{
		IDHeader:    "X-Account-ID",
		EmailHeader: "X-Account-Email",
	}
}

func (h Header) CurrentAccount(r *http.Request) (model.Account, error) {
	id := r.Header.Get(h.IDHeader)
	if id == "" {
		return model.Account{}, ErrUnauthenticated
	}

	return model.Account{
		ID:    id,
		Email: r.Header.Get(h.EmailHeader),
	}, nil
}
