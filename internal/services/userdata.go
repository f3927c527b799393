package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/session"
)

var (
	// ErrNoSuchDocument reports that an account had no user document. A
	// default one has been provisioned (or attempted) by the time it is
	// returned.
	ErrNoSuchDocument = errors.New("no such document")
	ErrSignedOut      = errors.New("no signed-in user")
	// ErrLineUserLinked reports a LINE user id already linked to another
	// account.
	ErrLineUserLinked = errors.New("LINE user is linked to another account")
)

// UserData mirrors the user documents of the store into session state.
type UserData struct {
	store  DocumentStore
	logger *slog.Logger
}

func NewUserData(store DocumentStore, logger *slog.Logger) *UserData {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserData{store: store, logger: logger}
}

// FetchUserData reads the account's document into state.
//
// When the document is missing a default one is written and its shape
// is put into state; ErrNoSuchDocument is returned either way, and a
// failed write is only logged. A document that does not decode leaves
// state untouched and returns models.ErrMalformedDocument.
func (d *UserData) FetchUserData(ctx context.Context, account *Account, state *session.State) error {
	fields, err := d.store.Get(ctx, models.UserDataCollection, account.UID)
	if errors.Is(err, ErrNotFound) {
		d.provision(ctx, account)
		state.Update(models.DefaultUser(account.UID, account.Email))
		return ErrNoSuchDocument
	}
	if err != nil {
		return fmt.Errorf("failed to fetch user data: %w", err)
	}

	user, err := models.DecodeUser(account.UID, fields)
	if err != nil {
		return err
	}
	state.Update(user)
	return nil
}

func (d *UserData) provision(ctx context.Context, account *Account) {
	err := d.store.Set(ctx, models.UserDataCollection, account.UID, models.DefaultUserFields(account.Email))
	if err != nil {
		d.logger.Error("Error creating userData document", "uid", account.UID, "error", err)
		return
	}
	d.logger.Info("userData document created", "uid", account.UID)
}

// Load is FetchUserData for callers that only care whether a usable
// snapshot ended up in state.
func (d *UserData) Load(ctx context.Context, account *Account, state *session.State) error {
	if err := d.FetchUserData(ctx, account, state); err != nil && !errors.Is(err, ErrNoSuchDocument) {
		return err
	}
	return nil
}

// SaveUserData writes u as the whole document and, once stored, makes it
// the snapshot held by state.
func (d *UserData) SaveUserData(ctx context.Context, u *models.User, state *session.State) error {
	if err := d.store.Set(ctx, models.UserDataCollection, u.UID, u.Fields()); err != nil {
		return fmt.Errorf("failed to save user data: %w", err)
	}
	state.Update(u)
	return nil
}

func (d *UserData) DeleteUserData(ctx context.Context, uid string) error {
	if err := d.store.Delete(ctx, models.UserDataCollection, uid); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

// FetchByLineUser loads the document linked to a LINE user id into
// state. ErrNotFound means no document is linked.
func (d *UserData) FetchByLineUser(ctx context.Context, lineUserID string, state *session.State) error {
	// Unlinked documents store an empty id.
	if lineUserID == "" {
		return ErrNotFound
	}
	id, fields, err := d.store.FindBy(ctx, models.UserDataCollection, "lineUserId", lineUserID)
	if err != nil {
		return err
	}

	user, err := models.DecodeUser(id, fields)
	if err != nil {
		return err
	}
	state.Update(user)
	return nil
}

// lineUserOwner returns the uid of the document linking lineUserID, or ""
// when none does.
func (d *UserData) lineUserOwner(ctx context.Context, lineUserID string) (string, error) {
	id, _, err := d.store.FindBy(ctx, models.UserDataCollection, "lineUserId", lineUserID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up LINE link: %w", err)
	}
	return id, nil
}
