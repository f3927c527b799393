// Package session holds the signed-in user's snapshot for the lifetime
// of one request or command.
//
// A State has a single writer: the goroutine that created it. It is
// passed explicitly (or through a context.Context) to whatever needs the
// current user, and is never shared between requests.
package session

import (
	"context"

	"github.com/ytakahashi/taskboard/internal/models"
)

// State is a single current-user slot. The zero value is signed out.
type State struct {
	user *models.User
}

func New() *State {
	return &State{}
}

// Update replaces the held snapshot wholesale and returns it. Passing
// nil signs the state out.
func (s *State) Update(u *models.User) *models.User {
	s.user = u
	return s.user
}

// Current returns the held snapshot.
func (s *State) Current() (*models.User, bool) {
	return s.user, s.user != nil
}

func (s *State) SignedIn() bool {
	return s.user != nil
}

func (s *State) Clear() {
	s.user = nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the State attached by NewContext.
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(ctxKey{}).(*State)
	return s, ok && s != nil
}
