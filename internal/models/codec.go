package models

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ErrMalformedDocument is returned when a stored document cannot be
// decoded into a User.
var ErrMalformedDocument = errors.New("malformed user document")

type categoryRecord struct {
	Key  string `mapstructure:"key"`
	Text string `mapstructure:"text"`
}

type todoRecord struct {
	ID          string          `mapstructure:"id"`
	Title       string          `mapstructure:"title"`
	Description string          `mapstructure:"description"`
	CreatedAt   int64           `mapstructure:"createdAt"`
	Deadline    *string         `mapstructure:"deadline"`
	FinishedAt  *int64          `mapstructure:"finishedAt"`
	Status      string          `mapstructure:"status"`
	Priority    string          `mapstructure:"priority"`
	Category    *categoryRecord `mapstructure:"category"`
}

type userRecord struct {
	Email          string           `mapstructure:"email"`
	DisplayName    string           `mapstructure:"displayName"`
	PhotoURL       string           `mapstructure:"photoURL"`
	LineUserID     string           `mapstructure:"lineUserId"`
	TodoCategories []categoryRecord `mapstructure:"todoCategories"`
	Todos          []todoRecord     `mapstructure:"todos"`
}

// timestampHook lets documents written with native store timestamps
// decode into the millisecond fields.
func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int64 {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v.UnixMilli(), nil
	}
	return data, nil
}

// DecodeUser converts the flat field map of document id into a User.
func DecodeUser(id string, fields map[string]any) (*User, error) {
	var rec userRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: timestampHook,
		Result:     &rec,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedDocument, id, err)
	}

	u := &User{
		UID:            id,
		Email:          rec.Email,
		DisplayName:    rec.DisplayName,
		PhotoURL:       rec.PhotoURL,
		LineUserID:     rec.LineUserID,
		TodoCategories: make([]Category, 0, len(rec.TodoCategories)),
		Todos:          make([]Todo, 0, len(rec.Todos)),
	}
	for _, c := range rec.TodoCategories {
		if c.Key == "" {
			return nil, fmt.Errorf("%w %s: category without key", ErrMalformedDocument, id)
		}
		u.TodoCategories = append(u.TodoCategories, Category(c))
	}
	for i, r := range rec.Todos {
		t, err := r.todo()
		if err != nil {
			return nil, fmt.Errorf("%w %s: todos[%d]: %v", ErrMalformedDocument, id, i, err)
		}
		u.Todos = append(u.Todos, t)
	}
	return u, nil
}

func (r todoRecord) todo() (Todo, error) {
	if r.ID == "" {
		return Todo{}, errors.New("missing id")
	}
	priority, err := ParsePriority(r.Priority)
	if err != nil {
		return Todo{}, err
	}
	name, err := ParseStatusName(r.Status)
	if err != nil {
		return Todo{}, err
	}

	t := Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Priority:    priority,
	}
	if r.Deadline != nil && *r.Deadline != "" {
		if _, err := time.Parse(DeadlineLayout, *r.Deadline); err != nil {
			return Todo{}, fmt.Errorf("deadline %q: %v", *r.Deadline, err)
		}
		t.Deadline = *r.Deadline
	}
	if r.Category != nil && r.Category.Key != "" {
		c := Category(*r.Category)
		t.Category = &c
	}

	// A completion time left behind on a reopened todo is dropped; a done
	// todo without one has nothing to order by and is rejected.
	switch name {
	case StatusDone:
		if r.FinishedAt == nil {
			return Todo{}, errors.New("done without finishedAt")
		}
		t.Status = Done{FinishedAt: *r.FinishedAt}
	default:
		t.Status = InProgress{}
	}
	return t, nil
}

// Fields returns the field map stored for u. The uid is the document id
// and is not part of it.
func (u *User) Fields() map[string]any {
	cats := make([]any, 0, len(u.TodoCategories))
	for _, c := range u.TodoCategories {
		cats = append(cats, map[string]any{"key": c.Key, "text": c.Text})
	}
	todos := make([]any, 0, len(u.Todos))
	for _, t := range u.Todos {
		todos = append(todos, t.fields())
	}
	return map[string]any{
		"email":          u.Email,
		"displayName":    u.DisplayName,
		"photoURL":       u.PhotoURL,
		"lineUserId":     u.LineUserID,
		"todoCategories": cats,
		"todos":          todos,
	}
}

func (t Todo) fields() map[string]any {
	m := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"createdAt":   t.CreatedAt,
		"deadline":    nil,
		"finishedAt":  nil,
		"status":      StatusName(t.Status),
		"priority":    string(t.Priority),
	}
	if t.Deadline != "" {
		m["deadline"] = t.Deadline
	}
	if at, ok := FinishedAt(t.Status); ok {
		m["finishedAt"] = at
	}
	if t.Category != nil {
		m["category"] = map[string]any{"key": t.Category.Key, "text": t.Category.Text}
	}
	return m
}
