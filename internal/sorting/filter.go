package sorting

import "github.com/ytakahashi/taskboard/internal/models"

// Criteria narrows a todo list. Empty values and models.FilterAll match
// everything.
type Criteria struct {
	Priority string
	Status   string
	Category string
}

func matches(want, got string) bool {
	return want == "" || want == models.FilterAll || want == got
}

// Filter returns the todos satisfying c, preserving order. The input is
// not modified.
func Filter(todos []models.Todo, c Criteria) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		category := ""
		if t.Category != nil {
			category = t.Category.Key
		}
		if matches(c.Priority, string(t.Priority)) &&
			matches(c.Status, models.StatusName(t.Status)) &&
			matches(c.Category, category) {
			out = append(out, t)
		}
	}
	return out
}
