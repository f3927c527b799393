package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeadlineLayout is the date format deadlines are stored in.
const DeadlineLayout = "2006-01-02"

// Priority is the severity of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps a priority to its ordinal so that ordering follows severity.
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority validates a wire priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Category is a user-defined grouping. Todos carry a copy of the
// category they were filed under.
type Category struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Todo represents a todo item
type Todo struct {
	ID          string
	Title       string
	Description string
	CreatedAt   int64 // unix milliseconds
	Deadline    string
	Status      Status
	Priority    Priority
	Category    *Category
}

// NowMillis returns t as unix milliseconds, the unit every stored
// timestamp uses.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}

type todoJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   int64     `json:"createdAt"`
	Deadline    *string   `json:"deadline"`
	FinishedAt  *int64    `json:"finishedAt"`
	Status      string    `json:"status"`
	Priority    Priority  `json:"priority"`
	Category    *Category `json:"category,omitempty"`
}

func (t Todo) MarshalJSON() ([]byte, error) {
	out := todoJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		Status:      StatusName(t.Status),
		Priority:    t.Priority,
		Category:    t.Category,
	}
	if t.Deadline != "" {
		d := t.Deadline
		out.Deadline = &d
	}
	if at, ok := FinishedAt(t.Status); ok {
		out.FinishedAt = &at
	}
	return json.Marshal(out)
}
