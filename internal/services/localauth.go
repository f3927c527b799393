package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalAuth is an in-process AuthProvider for development and tests.
// Passwords are kept as bcrypt hashes.
type LocalAuth struct {
	mu       sync.Mutex
	cost     int
	accounts map[string]localAccount // by lower-cased email
}

type localAccount struct {
	uid   string
	email string
	hash  []byte
}

func NewLocalAuth() *LocalAuth {
	return NewLocalAuthWithCost(bcrypt.DefaultCost)
}

func NewLocalAuthWithCost(cost int) *LocalAuth {
	return &LocalAuth{cost: cost, accounts: make(map[string]localAccount)}
}

func (a *LocalAuth) SignUp(_ context.Context, email, password string) (*Account, error) {
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	key := strings.ToLower(email)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.accounts[key]; ok {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, err
	}
	acct := localAccount{uid: uuid.NewString(), email: email, hash: hash}
	a.accounts[key] = acct
	return &Account{UID: acct.uid, Email: acct.email}, nil
}

func (a *LocalAuth) SignIn(_ context.Context, email, password string) (*Account, error) {
	a.mu.Lock()
	acct, ok := a.accounts[strings.ToLower(email)]
	a.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Account{UID: acct.uid, Email: acct.email}, nil
}

func (a *LocalAuth) DeleteAccount(_ context.Context, account *Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, acct := range a.accounts {
		if acct.uid == account.UID {
			delete(a.accounts, key)
			return nil
		}
	}
	return ErrAccountNotFound
}
