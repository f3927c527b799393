package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/taskboard/internal/services"
	"github.com/ytakahashi/taskboard/internal/session"
)

// SessionCookie carries the signed session token.
const SessionCookie = "session"

const accountKey = "account"

type Handler struct {
	auth          services.AuthProvider
	tokens        *services.TokenService
	data          *services.UserData
	todos         *services.Todos
	logger        *slog.Logger
	secureCookies bool
}

type Options struct {
	Auth          services.AuthProvider
	Tokens        *services.TokenService
	Data          *services.UserData
	Todos         *services.Todos
	Logger        *slog.Logger
	SecureCookies bool
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:          opts.Auth,
		tokens:        opts.Tokens,
		data:          opts.Data,
		todos:         opts.Todos,
		logger:        logger,
		secureCookies: opts.SecureCookies,
	}
}

// Register mounts the API and page routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.Use(h.Authenticate)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	api.GET("/options", h.Options)
	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/signin", h.SignIn)
	api.POST("/auth/signout", h.SignOut)

	user := api.Group("", h.RequireUser)
	user.DELETE("/account", h.DeleteAccount)
	user.GET("/me", h.Me)
	user.PATCH("/me", h.UpdateMe)
	user.GET("/todos", h.ListTodos)
	user.POST("/todos", h.CreateTodo)
	user.PUT("/todos/:id", h.UpdateTodo)
	user.POST("/todos/:id/toggle", h.ToggleTodo)
	user.DELETE("/todos/:id", h.DeleteTodo)
	user.GET("/categories", h.ListCategories)
	user.POST("/categories", h.CreateCategory)
	user.DELETE("/categories/:key", h.DeleteCategory)

	e.GET("/*", h.Page)
}

func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"message": message})
}

func (h *Handler) internalError(c echo.Context, message string, err error) error {
	h.logger.Error(message, "path", c.Path(), "error", err)
	return errorJSON(c, http.StatusInternalServerError, message)
}

func accountFrom(c echo.Context) (*services.Account, bool) {
	acct, ok := c.Get(accountKey).(*services.Account)
	return acct, ok && acct != nil
}

func stateFrom(c echo.Context) *session.State {
	if s, ok := session.FromContext(c.Request().Context()); ok {
		return s
	}
	return session.New()
}

func (h *Handler) setSessionCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticate attaches the account named by a valid session cookie.
// Requests without one continue signed out.
func (h *Handler) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err == nil && cookie.Value != "" {
			acct, err := h.tokens.Parse(cookie.Value)
			if err != nil {
				h.logger.Debug("discarding session cookie", "error", err)
				h.clearSessionCookie(c)
			} else {
				c.Set(accountKey, acct)
			}
		}
		return next(c)
	}
}

// RequireUser rejects signed-out requests and loads the user's document
// into a session state owned by the request.
func (h *Handler) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		acct, ok := accountFrom(c)
		if !ok {
			return errorJSON(c, http.StatusUnauthorized, "sign in required")
		}

		state := session.New()
		if err := h.data.Load(c.Request().Context(), acct, state); err != nil {
			return h.internalError(c, "failed to load user data", err)
		}
		c.SetRequest(c.Request().WithContext(session.NewContext(c.Request().Context(), state)))
		return next(c)
	}
}
