package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// IdentityToolkitAuth signs accounts up and in against Firebase
// Authentication's email/password provider.
type IdentityToolkitAuth struct {
	svc *identitytoolkit.Service
}

func NewIdentityToolkitAuth(ctx context.Context, apiKey string, opts ...option.ClientOption) (*IdentityToolkitAuth, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return &IdentityToolkitAuth{svc: svc}, nil
}

func (a *IdentityToolkitAuth) SignUp(ctx context.Context, email, password string) (*Account, error) {
	resp, err := a.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapIdentityError("sign up", err)
	}

	return &Account{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		IDToken:     resp.IdToken,
	}, nil
}

func (a *IdentityToolkitAuth) SignIn(ctx context.Context, email, password string) (*Account, error) {
	resp, err := a.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapIdentityError("sign in", err)
	}

	return &Account{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhotoURL:    resp.PhotoUrl,
		IDToken:     resp.IdToken,
	}, nil
}

func (a *IdentityToolkitAuth) DeleteAccount(ctx context.Context, account *Account) error {
	_, err := a.svc.Relyingparty.DeleteAccount(&identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{
		IdToken: account.IDToken,
	}).Context(ctx).Do()
	if err != nil {
		return mapIdentityError("delete account", err)
	}

	return nil
}

// mapIdentityError turns the provider's error codes, carried in the
// message of a googleapi.Error, into the package's sentinel errors.
func mapIdentityError(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	code := gerr.Message
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailTaken
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		return ErrInvalidCredentials
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		// Deleting an account needs a recent sign-in.
		return ErrInvalidCredentials
	case "USER_NOT_FOUND":
		return ErrAccountNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
