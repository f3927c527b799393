package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/routes"
	"github.com/ytakahashi/taskboard/internal/session"
)

type pageView struct {
	Route   routes.Route      `json:"route"`
	User    *models.User      `json:"user,omitempty"`
	Todos   []models.Todo     `json:"todos,omitempty"`
	Options map[string]any    `json:"options,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
}

// Page serves every non-API path as a JSON view model for the route it
// resolves to. Guarded routes send signed-out visitors to the sign-in
// page, and the auth pages send signed-in visitors home.
func (h *Handler) Page(c echo.Context) error {
	route := routes.Resolve(c.Request().URL.Path)
	acct, signedIn := accountFrom(c)

	if route.RequiresAuth && !signedIn {
		return c.Redirect(http.StatusSeeOther, routes.SignIn)
	}
	if signedIn && (route.Path == routes.SignIn || route.Path == routes.SignUp) {
		return c.Redirect(http.StatusSeeOther, routes.Home)
	}

	view := pageView{Route: route}
	code := http.StatusOK
	if route.Name == routes.NotFound {
		code = http.StatusNotFound
	}

	if signedIn && route.RequiresAuth {
		state := session.New()
		if err := h.data.Load(c.Request().Context(), acct, state); err != nil {
			return h.internalError(c, "failed to load user data", err)
		}
		view.User, _ = state.Current()
	}

	if route.Path == routes.Home && view.User != nil {
		var q listQuery
		if err := c.Bind(&q); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid query")
		}
		todos, err := q.view(view.User.Todos)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		view.Todos = todos
		view.Options = map[string]any{
			"sorting":  models.SortingOptions,
			"priority": models.PriorityOptions,
			"status":   models.StatusOptions,
		}
		if q.Sort == "" {
			q.Sort = models.DefaultSorting
		}
		view.Query = map[string]string{
			"sort": q.Sort, "priority": q.Priority, "status": q.Status, "category": q.Category,
		}
	}

	return c.JSON(code, view)
}
