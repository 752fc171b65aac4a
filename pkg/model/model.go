package model

import (
	"errors"
	"time"
)

var (
	ErrAlreadyReserved = errors.New("gift is already reserved")
	ErrForbidden       = errors.New("account is not the owner of this list")
)

type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is the already-authenticated identity handed over by the auth layer.
// Guests reserving gifts have no account at all.
type Account struct {
	ID    string
	Email string
}
