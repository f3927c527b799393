package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/services"
	"github.com/ytakahashi/taskboard/internal/sorting"
)

type createTodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	Category    string `json:"category"`
}

type updateTodoRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
	Category    *string `json:"category"`
}

type categoryRequest struct {
	Key  string `json:"key" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type profileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL" validate:"omitempty,url"`
	LineUserID  *string `json:"lineUserId"`
}

type listQuery struct {
	Sort     string `query:"sort"`
	Priority string `query:"priority"`
	Status   string `query:"status"`
	Category string `query:"category"`
}

// view applies the list query to a copy of todos: filters first, then
// the requested ordering (newest first when none is given).
func (q listQuery) view(todos []models.Todo) ([]models.Todo, error) {
	raw := q.Sort
	if raw == "" {
		raw = models.DefaultSorting
	}
	spec, err := sorting.ParseSpec(raw)
	if err != nil {
		return nil, err
	}

	status := q.Status
	if status != "" && status != models.FilterAll {
		if status, err = models.ParseStatusName(status); err != nil {
			return nil, err
		}
	}

	filtered := sorting.Filter(slices.Clone(todos), sorting.Criteria{
		Priority: q.Priority,
		Status:   status,
		Category: q.Category,
	})
	return sorting.Sort(filtered, spec), nil
}

// mutationError maps service errors of the todo operations to responses.
func (h *Handler) mutationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrTodoNotFound), errors.Is(err, services.ErrCategoryNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateCategory), errors.Is(err, services.ErrLineUserLinked):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidTodo):
		return errorJSON(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrSignedOut):
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}
	return h.internalError(c, "failed to save user data", err)
}

// GET /api/options
func (h *Handler) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"sorting":  models.SortingOptions,
		"priority": models.PriorityOptions,
		"status":   models.StatusOptions,
	})
}

// GET /api/me
func (h *Handler) Me(c echo.Context) error {
	user, _ := stateFrom(c).Current()
	return c.JSON(http.StatusOK, user)
}

// PATCH /api/me
func (h *Handler) UpdateMe(c echo.Context) error {
	var req profileRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.todos.UpdateProfile(c.Request().Context(), stateFrom(c), services.ProfilePatch{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		LineUserID:  req.LineUserID,
	})
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GET /api/todos
func (h *Handler) ListTodos(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid query")
	}

	user, _ := stateFrom(c).Current()
	todos, err := q.view(user.Todos)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, todos)
}

// POST /api/todos
func (h *Handler) CreateTodo(c echo.Context) error {
	var req createTodoRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	todo, err := h.todos.Add(c.Request().Context(), stateFrom(c), services.NewTodo{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Priority:    models.Priority(req.Priority),
		CategoryKey: req.Category,
	})
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, todo)
}

// PUT /api/todos/:id
func (h *Handler) UpdateTodo(c echo.Context) error {
	var req updateTodoRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	patch := services.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		CategoryKey: req.Category,
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		patch.Priority = &p
	}

	todo, err := h.todos.Edit(c.Request().Context(), stateFrom(c), c.Param("id"), patch)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, todo)
}

// POST /api/todos/:id/toggle
func (h *Handler) ToggleTodo(c echo.Context) error {
	todo, err := h.todos.ToggleStatus(c.Request().Context(), stateFrom(c), c.Param("id"))
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, todo)
}

// DELETE /api/todos/:id
func (h *Handler) DeleteTodo(c echo.Context) error {
	if err := h.todos.Delete(c.Request().Context(), stateFrom(c), c.Param("id")); err != nil {
		return h.mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /api/categories
func (h *Handler) ListCategories(c echo.Context) error {
	user, _ := stateFrom(c).Current()
	return c.JSON(http.StatusOK, user.TodoCategories)
}

// POST /api/categories
func (h *Handler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.todos.AddCategory(c.Request().Context(), stateFrom(c), req.Key, req.Text)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// DELETE /api/categories/:key
func (h *Handler) DeleteCategory(c echo.Context) error {
	if err := h.todos.DeleteCategory(c.Request().Context(), stateFrom(c), c.Param("key")); err != nil {
		return h.mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
