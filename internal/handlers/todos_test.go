package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type todoJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	FinishedAt *int64 `json:"finishedAt"`
	Category   *struct {
		Key string `json:"key"`
	} `json:"category"`
}

func decodeTodos(t *testing.T, body []byte) []todoJSON {
	t.Helper()
	var todos []todoJSON
	if err := json.Unmarshal(body, &todos); err != nil {
		t.Fatalf("invalid todo list %q: %v", body, err)
	}
	return todos
}

func todoTitles(todos []todoJSON) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestTodosAPI(t *testing.T) {
	s := newTestServer(t)
	cookie := s.signUp(t)

	if rec := s.do(http.MethodPost, "/api/categories", `{"key":"home","text":"Home"}`, cookie); rec.Code != http.StatusCreated {
		t.Fatalf("create category: status %d: %s", rec.Code, rec.Body)
	}
	for _, body := range []string{
		`{"title":"Banana!","priority":"high"}`,
		`{"title":"apple","priority":"low","category":"home"}`,
		`{"title":"Cherry-2","priority":"medium","deadline":"2024-06-01"}`,
	} {
		if rec := s.do(http.MethodPost, "/api/todos", body, cookie); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status %d: %s", body, rec.Code, rec.Body)
		}
	}

	list := func(query string) []todoJSON {
		rec := s.do(http.MethodGet, "/api/todos?"+query, "", cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("list %q: status %d: %s", query, rec.Code, rec.Body)
		}
		return decodeTodos(t, rec.Body.Bytes())
	}

	got := todoTitles(list("sort=" + url.QueryEscape("title, Asc")))
	if diff := cmp.Diff([]string{"apple", "Banana!", "Cherry-2"}, got); diff != "" {
		t.Errorf("title Asc (-want +got):\n%s", diff)
	}
	got = todoTitles(list("sort=" + url.QueryEscape("priority, Desc")))
	if diff := cmp.Diff([]string{"Banana!", "Cherry-2", "apple"}, got); diff != "" {
		t.Errorf("priority Desc (-want +got):\n%s", diff)
	}
	got = todoTitles(list("category=home"))
	if diff := cmp.Diff([]string{"apple"}, got); diff != "" {
		t.Errorf("category filter (-want +got):\n%s", diff)
	}

	if rec := s.do(http.MethodGet, "/api/todos?sort="+url.QueryEscape("owner, Asc"), "", cookie); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid sort: status = %d", rec.Code)
	}

	target := list("sort=" + url.QueryEscape("title, Asc"))[0]
	rec := s.do(http.MethodPost, "/api/todos/"+target.ID+"/toggle", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", rec.Code)
	}
	var toggled todoJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatal(err)
	}
	if toggled.Status != "done" || toggled.FinishedAt == nil {
		t.Errorf("toggled = %+v", toggled)
	}
	got = todoTitles(list("status=done"))
	if diff := cmp.Diff([]string{"apple"}, got); diff != "" {
		t.Errorf("status filter (-want +got):\n%s", diff)
	}
	got = todoTitles(list("status=in-progress&priority=all"))
	if len(got) != 2 {
		t.Errorf("in-progress filter = %v", got)
	}

	rec = s.do(http.MethodPut, "/api/todos/"+target.ID, `{"title":"avocado","priority":"high"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rec.Code, rec.Body)
	}

	if rec := s.do(http.MethodDelete, "/api/categories/home", "", cookie); rec.Code != http.StatusNoContent {
		t.Errorf("delete category: status %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/api/todos/"+target.ID, "", cookie); rec.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/api/todos/"+target.ID, "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rec.Code)
	}
	if n := len(list("")); n != 2 {
		t.Errorf("%d todos left, want 2", n)
	}
}

func TestCreateTodoValidation(t *testing.T) {
	s := newTestServer(t)
	cookie := s.signUp(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing title", `{"priority":"low"}`, http.StatusUnprocessableEntity},
		{"unknown priority", `{"title":"x","priority":"urgent"}`, http.StatusUnprocessableEntity},
		{"bad deadline", `{"title":"x","priority":"low","deadline":"soon"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"title":"x","priority":"low","category":"nope"}`, http.StatusNotFound},
		{"malformed json", `{"title":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := s.do(http.MethodPost, "/api/todos", tt.body, cookie); rec.Code != tt.code {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.code, rec.Body)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/options", "")
	var body map[string][]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["sorting"]) != 10 || len(body["priority"]) != 4 || len(body["status"]) != 3 {
		t.Errorf("options = %v", body)
	}
}
