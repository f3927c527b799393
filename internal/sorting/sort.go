// Package sorting orders and filters a user's todo list the way the
// list view presents it.
package sorting

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ytakahashi/taskboard/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrInvalidSpec is returned for a sort specification outside the
// "<field>, <direction>" grammar.
var ErrInvalidSpec = errors.New("invalid sort specification")

type Field string

const (
	FieldCreatedAt Field = "createdAt"
	FieldPriority  Field = "priority"
	FieldDeadline  Field = "deadline"
	FieldStatus    Field = "status"
	FieldTitle     Field = "title"
)

type Direction string

const (
	Asc  Direction = "Asc"
	Desc Direction = "Desc"
)

// Spec is a parsed sort specification.
type Spec struct {
	Field     Field
	Direction Direction
}

func (s Spec) String() string {
	return string(s.Field) + ", " + string(s.Direction)
}

// ParseSpec parses strings such as "priority, Asc".
func ParseSpec(s string) (Spec, error) {
	field, dir, ok := strings.Cut(s, ", ")
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	spec := Spec{Field: Field(field), Direction: Direction(dir)}
	switch spec.Field {
	case FieldCreatedAt, FieldPriority, FieldDeadline, FieldStatus, FieldTitle:
	default:
		return Spec{}, fmt.Errorf("%w: unknown field %q", ErrInvalidSpec, field)
	}
	if spec.Direction != Asc && spec.Direction != Desc {
		return Spec{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidSpec, dir)
	}
	return spec, nil
}

// Sort orders todos in place by a single key and returns them. Equal
// keys keep their input order. A nil or empty input yields an empty
// slice.
func Sort(todos []models.Todo, spec Spec) []models.Todo {
	if len(todos) == 0 {
		return []models.Todo{}
	}

	compare := comparator(spec.Field)
	slices.SortStableFunc(todos, func(a, b models.Todo) int {
		if spec.Direction == Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return todos
}

func comparator(field Field) func(a, b models.Todo) int {
	switch field {
	case FieldPriority:
		return func(a, b models.Todo) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	case FieldTitle:
		// Collators keep scratch buffers, so each sort gets its own.
		col := collate.New(language.English)
		return func(a, b models.Todo) int {
			return col.CompareString(titleKey(a.Title), titleKey(b.Title))
		}
	case FieldDeadline:
		return func(a, b models.Todo) int {
			return cmp.Compare(a.Deadline, b.Deadline)
		}
	case FieldStatus:
		return func(a, b models.Todo) int {
			return cmp.Compare(models.StatusName(a.Status), models.StatusName(b.Status))
		}
	default:
		return func(a, b models.Todo) int {
			return cmp.Compare(a.CreatedAt, b.CreatedAt)
		}
	}
}

// titleKey lower-cases a title and keeps only the letters a-z.
func titleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
