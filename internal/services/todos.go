package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/session"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidTodo       = errors.New("invalid todo")
)

// NewTodo is the input of Todos.Add.
type NewTodo struct {
	Title       string
	Description string
	Deadline    string
	Priority    models.Priority
	CategoryKey string
}

// TodoPatch lists the fields Todos.Edit changes; nil fields are kept.
// An empty CategoryKey removes the category.
type TodoPatch struct {
	Title       *string
	Description *string
	Deadline    *string
	Priority    *models.Priority
	CategoryKey *string
}

// ProfilePatch lists the profile fields Todos.UpdateProfile changes.
type ProfilePatch struct {
	DisplayName *string
	PhotoURL    *string
	LineUserID  *string
}

// Todos edits the todo list and categories of the signed-in user. Every
// operation works on a copy of the session snapshot, writes the whole
// document, and only then replaces the snapshot.
type Todos struct {
	data  *UserData
	now   func() time.Time
	newID func() string
}

func NewTodos(data *UserData) *Todos {
	return &Todos{
		data:  data,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Todos) commit(ctx context.Context, state *session.State, fn func(u *models.User) error) (*models.User, error) {
	current, ok := state.Current()
	if !ok {
		return nil, ErrSignedOut
	}
	u := current.Clone()
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := s.data.SaveUserData(ctx, u, state); err != nil {
		return nil, err
	}
	return u, nil
}

func validDeadline(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse(models.DeadlineLayout, d); err != nil {
		return fmt.Errorf("%w: deadline must be YYYY-MM-DD", ErrInvalidTodo)
	}
	return nil
}

func resolveCategory(u *models.User, key string) (*models.Category, error) {
	if key == "" {
		return nil, nil
	}
	i := u.FindCategory(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, key)
	}
	c := u.TodoCategories[i]
	return &c, nil
}

func (s *Todos) Add(ctx context.Context, state *session.State, in NewTodo) (models.Todo, error) {
	var todo models.Todo
	_, err := s.commit(ctx, state, func(u *models.User) error {
		if strings.TrimSpace(in.Title) == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidTodo)
		}
		if !in.Priority.Valid() {
			return fmt.Errorf("%w: unknown priority %q", ErrInvalidTodo, in.Priority)
		}
		if err := validDeadline(in.Deadline); err != nil {
			return err
		}
		category, err := resolveCategory(u, in.CategoryKey)
		if err != nil {
			return err
		}

		todo = models.Todo{
			ID:          s.newID(),
			Title:       in.Title,
			Description: in.Description,
			CreatedAt:   models.NowMillis(s.now()),
			Deadline:    in.Deadline,
			Status:      models.InProgress{},
			Priority:    in.Priority,
			Category:    category,
		}
		u.Todos = append(u.Todos, todo)
		return nil
	})
	return todo, err
}

func (s *Todos) Edit(ctx context.Context, state *session.State, id string, patch TodoPatch) (models.Todo, error) {
	var todo models.Todo
	_, err := s.commit(ctx, state, func(u *models.User) error {
		i := u.FindTodo(id)
		if i < 0 {
			return ErrTodoNotFound
		}
		t := &u.Todos[i]
		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return fmt.Errorf("%w: title is required", ErrInvalidTodo)
			}
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Deadline != nil {
			if err := validDeadline(*patch.Deadline); err != nil {
				return err
			}
			t.Deadline = *patch.Deadline
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return fmt.Errorf("%w: unknown priority %q", ErrInvalidTodo, *patch.Priority)
			}
			t.Priority = *patch.Priority
		}
		if patch.CategoryKey != nil {
			category, err := resolveCategory(u, *patch.CategoryKey)
			if err != nil {
				return err
			}
			t.Category = category
		}
		todo = *t
		return nil
	})
	return todo, err
}

// ToggleStatus flips a todo between in progress and done, stamping the
// completion time when it becomes done.
func (s *Todos) ToggleStatus(ctx context.Context, state *session.State, id string) (models.Todo, error) {
	var todo models.Todo
	_, err := s.commit(ctx, state, func(u *models.User) error {
		i := u.FindTodo(id)
		if i < 0 {
			return ErrTodoNotFound
		}
		if models.IsDone(u.Todos[i].Status) {
			u.Todos[i].Status = models.InProgress{}
		} else {
			u.Todos[i].Status = models.Done{FinishedAt: models.NowMillis(s.now())}
		}
		todo = u.Todos[i]
		return nil
	})
	return todo, err
}

// FindByTitle returns the first in-progress todo whose title matches,
// ignoring case, or the first done one when no open todo matches.
func FindByTitle(u *models.User, title string) (models.Todo, bool) {
	var (
		done  models.Todo
		found bool
	)
	for _, t := range u.Todos {
		if !strings.EqualFold(t.Title, title) {
			continue
		}
		if !models.IsDone(t.Status) {
			return t, true
		}
		if !found {
			done, found = t, true
		}
	}
	return done, found
}

func (s *Todos) Delete(ctx context.Context, state *session.State, id string) error {
	_, err := s.commit(ctx, state, func(u *models.User) error {
		i := u.FindTodo(id)
		if i < 0 {
			return ErrTodoNotFound
		}
		u.Todos = append(u.Todos[:i], u.Todos[i+1:]...)
		return nil
	})
	return err
}

func (s *Todos) AddCategory(ctx context.Context, state *session.State, key, text string) (models.Category, error) {
	c := models.Category{Key: key, Text: text}
	_, err := s.commit(ctx, state, func(u *models.User) error {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: category key is required", ErrInvalidTodo)
		}
		if u.FindCategory(key) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, key)
		}
		u.TodoCategories = append(u.TodoCategories, c)
		return nil
	})
	return c, err
}

// DeleteCategory removes a category and clears it from the todos filed
// under it.
func (s *Todos) DeleteCategory(ctx context.Context, state *session.State, key string) error {
	_, err := s.commit(ctx, state, func(u *models.User) error {
		i := u.FindCategory(key)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, key)
		}
		u.TodoCategories = append(u.TodoCategories[:i], u.TodoCategories[i+1:]...)
		for j := range u.Todos {
			if u.Todos[j].Category != nil && u.Todos[j].Category.Key == key {
				u.Todos[j].Category = nil
			}
		}
		return nil
	})
	return err
}

func (s *Todos) UpdateProfile(ctx context.Context, state *session.State, patch ProfilePatch) (*models.User, error) {
	return s.commit(ctx, state, func(u *models.User) error {
		if patch.DisplayName != nil {
			u.DisplayName = *patch.DisplayName
		}
		if patch.PhotoURL != nil {
			u.PhotoURL = *patch.PhotoURL
		}
		if patch.LineUserID != nil {
			if id := *patch.LineUserID; id != "" {
				owner, err := s.data.lineUserOwner(ctx, id)
				if err != nil {
					return err
				}
				if owner != "" && owner != u.UID {
					return fmt.Errorf("%w: %s", ErrLineUserLinked, id)
				}
			}
			u.LineUserID = *patch.LineUserID
		}
		return nil
	})
}
