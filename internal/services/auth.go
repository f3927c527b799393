package services

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrAccountNotFound    = errors.New("account not found")
)

// Account is the currently authenticated account as reported by the
// auth provider.
type Account struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	// IDToken is the provider's credential for acting on the account.
	// Providers that do not issue one leave it empty.
	IDToken string
}

// AuthProvider is the external identity service.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	DeleteAccount(ctx context.Context, account *Account) error
}
