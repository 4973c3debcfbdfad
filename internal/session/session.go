// Package session keeps server-side login sessions keyed by an opaque token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Get(ctx context.Context, token string) (Session, error)
	Set(ctx context.Context, token string, s Session) error
	Clear(ctx context.Context, token string) error
}

func NewToken() string {
	return uuid.NewString()
}
