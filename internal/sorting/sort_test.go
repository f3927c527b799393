package sorting

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ytakahashi/taskboard/internal/models"
)

func mustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

func ids(todos []models.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func titles(todos []models.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func priorities(todos []models.Todo) []models.Priority {
	out := make([]models.Priority, len(todos))
	for i, t := range todos {
		out[i] = t.Priority
	}
	return out
}

func sample() []models.Todo {
	return []models.Todo{
		{ID: "a", Title: "Pay rent", CreatedAt: 300, Deadline: "2024-02-01", Status: models.InProgress{}, Priority: models.PriorityHigh},
		{ID: "b", Title: "call mom", CreatedAt: 100, Deadline: "2024-01-15", Status: models.Done{FinishedAt: 400}, Priority: models.PriorityLow},
		{ID: "c", Title: "Dentist!", CreatedAt: 200, Deadline: "2024-03-10", Status: models.InProgress{}, Priority: models.PriorityMedium},
	}
}

func TestParseSpec(t *testing.T) {
	for _, opt := range models.SortingOptions {
		spec, err := ParseSpec(opt.Key)
		if err != nil {
			t.Errorf("ParseSpec(%q) error = %v", opt.Key, err)
			continue
		}
		if spec.String() != opt.Key {
			t.Errorf("ParseSpec(%q).String() = %q", opt.Key, spec.String())
		}
	}

	for _, bad := range []string{"", "priority,Asc", "priority Asc", "owner, Asc", "title, Up", "title, asc"} {
		if _, err := ParseSpec(bad); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("ParseSpec(%q) error = %v, want ErrInvalidSpec", bad, err)
		}
	}
}

func TestSortPriority(t *testing.T) {
	todos := []models.Todo{
		{ID: "1", Priority: models.PriorityLow},
		{ID: "2", Priority: models.PriorityHigh},
		{ID: "3", Priority: models.PriorityMedium},
	}

	asc := Sort(slices.Clone(todos), mustParseSpec("priority, Asc"))
	want := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	if diff := cmp.Diff(want, priorities(asc)); diff != "" {
		t.Errorf("priority Asc (-want +got):\n%s", diff)
	}

	desc := Sort(slices.Clone(todos), mustParseSpec("priority, Desc"))
	want = []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}
	if diff := cmp.Diff(want, priorities(desc)); diff != "" {
		t.Errorf("priority Desc (-want +got):\n%s", diff)
	}
}

func TestSortTitleIgnoresCaseAndPunctuation(t *testing.T) {
	todos := []models.Todo{
		{ID: "1", Title: "Banana!"},
		{ID: "2", Title: "apple"},
		{ID: "3", Title: "Cherry-2"},
	}

	got := titles(Sort(todos, mustParseSpec("title, Asc")))
	want := []string{"apple", "Banana!", "Cherry-2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("title Asc (-want +got):\n%s", diff)
	}

	got = titles(Sort(todos, mustParseSpec("title, Desc")))
	want = []string{"Cherry-2", "Banana!", "apple"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("title Desc (-want +got):\n%s", diff)
	}
}

func TestSortFields(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"createdAt, Asc", []string{"b", "c", "a"}},
		{"createdAt, Desc", []string{"a", "c", "b"}},
		{"deadline, Asc", []string{"b", "a", "c"}},
		{"deadline, Desc", []string{"c", "a", "b"}},
		{"title, Asc", []string{"b", "c", "a"}},
		{"status, Asc", []string{"b", "a", "c"}},
		{"status, Desc", []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := ids(Sort(sample(), mustParseSpec(tt.spec)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sort(%q) (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}

func TestSortAscThenDescReverses(t *testing.T) {
	for _, field := range []Field{FieldCreatedAt, FieldPriority, FieldDeadline, FieldTitle} {
		t.Run(string(field), func(t *testing.T) {
			asc := ids(Sort(sample(), Spec{Field: field, Direction: Asc}))
			desc := ids(Sort(sample(), Spec{Field: field, Direction: Desc}))
			slices.Reverse(desc)
			if diff := cmp.Diff(asc, desc); diff != "" {
				t.Errorf("Desc is not the reverse of Asc (-asc +reversed desc):\n%s", diff)
			}
		})
	}
}

func TestSortTiesKeepInputOrder(t *testing.T) {
	todos := []models.Todo{
		{ID: "1", Priority: models.PriorityHigh},
		{ID: "2", Priority: models.PriorityLow},
		{ID: "3", Priority: models.PriorityHigh},
	}
	got := ids(Sort(todos, mustParseSpec("priority, Desc")))
	if diff := cmp.Diff([]string{"1", "3", "2"}, got); diff != "" {
		t.Errorf("ties reordered (-want +got):\n%s", diff)
	}
}

func TestSortMissingDeadlineFirstAscending(t *testing.T) {
	todos := []models.Todo{
		{ID: "1", Deadline: "2024-01-01"},
		{ID: "2"},
	}
	got := ids(Sort(todos, mustParseSpec("deadline, Asc")))
	if diff := cmp.Diff([]string{"2", "1"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSortEmpty(t *testing.T) {
	for _, opt := range models.SortingOptions {
		if got := Sort(nil, mustParseSpec(opt.Key)); got == nil || len(got) != 0 {
			t.Errorf("Sort(nil, %q) = %#v, want empty slice", opt.Key, got)
		}
		if got := Sort([]models.Todo{}, mustParseSpec(opt.Key)); len(got) != 0 {
			t.Errorf("Sort(empty, %q) = %#v", opt.Key, got)
		}
	}
}

func TestFilter(t *testing.T) {
	todos := sample()
	todos[0].Category = &models.Category{Key: "home", Text: "Home"}

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria", Criteria{}, []string{"a", "b", "c"}},
		{"all", Criteria{Priority: models.FilterAll, Status: models.FilterAll}, []string{"a", "b", "c"}},
		{"priority", Criteria{Priority: "medium"}, []string{"c"}},
		{"status", Criteria{Status: models.StatusInProgress}, []string{"a", "c"}},
		{"done", Criteria{Status: models.StatusDone}, []string{"b"}},
		{"category", Criteria{Category: "home"}, []string{"a"}},
		{"combined", Criteria{Status: models.StatusInProgress, Priority: "low"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(todos, tt.c))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter() (-want +got):\n%s", diff)
			}
		})
	}
}
