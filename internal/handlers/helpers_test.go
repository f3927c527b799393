package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/taskboard/internal/services"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	e     *echo.Echo
	h     *Handler
	store *services.MemoryStore
	auth  *services.LocalAuth
	data  *services.UserData
	todos *services.Todos
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := services.NewMemoryStore()
	auth := services.NewLocalAuthWithCost(bcrypt.MinCost)
	data := services.NewUserData(store, logger)
	todos := services.NewTodos(data)

	h := NewHandler(Options{
		Auth:   auth,
		Tokens: services.NewTokenService("test-secret", time.Hour),
		Data:   data,
		Todos:  todos,
		Logger: logger,
	})
	return &testServer{e: NewEcho(h, nil, nil), h: h, store: store, auth: auth, data: data, todos: todos}
}

func (s *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

// signUp registers test@gmail.com and returns its session cookie.
func (s *testServer) signUp(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/signup", `{"email":"test@gmail.com","password":"123456"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up: status %d: %s", rec.Code, rec.Body)
	}
	c := sessionCookie(rec)
	if c == nil || c.Value == "" {
		t.Fatal("sign up set no session cookie")
	}
	return c
}
