package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminPasswordUnset = errors.New("ADMIN_PASSWORD is not set")
)

// Authenticate looks the user up and checks the password against its bcrypt hash.
func Authenticate(ctx context.Context, users repo.UserRepository, username, password string) (models.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the admin account on first start. An existing account is
// left untouched. It reports whether a user was created.
func EnsureAdmin(ctx context.Context, users repo.UserRepository, username, password string) (bool, error) {
	_, err := users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}
	if password == "" {
		return false, ErrAdminPasswordUnset
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
