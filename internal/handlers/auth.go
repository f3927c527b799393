package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/taskboard/internal/routes"
	"github.com/ytakahashi/taskboard/internal/services"
	"github.com/ytakahashi/taskboard/internal/session"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
	User     any    `json:"user,omitempty"`
}

// POST /api/auth/signup
func (h *Handler) SignUp(c echo.Context) error {
	var req signUpRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	acct, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return c.JSON(http.StatusConflict, map[string]any{
			"message": err.Error(),
			"errors":  FieldErrors{"email": err.Error()},
		})
	case errors.Is(err, services.ErrWeakPassword):
		return validationError(c, FieldErrors{"password": err.Error()})
	case err != nil:
		return h.internalError(c, "failed to sign up", err)
	}

	return h.startSession(c, acct, http.StatusCreated)
}

// POST /api/auth/signin
func (h *Handler) SignIn(c echo.Context) error {
	var req signInRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	acct, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}
	if err != nil {
		return h.internalError(c, "failed to sign in", err)
	}

	return h.startSession(c, acct, http.StatusOK)
}

// startSession fetches (or provisions) the account's document, sets the
// session cookie and points the client at the home route.
func (h *Handler) startSession(c echo.Context, acct *services.Account, code int) error {
	state := session.New()
	if err := h.data.Load(c.Request().Context(), acct, state); err != nil {
		return h.internalError(c, "failed to load user data", err)
	}

	token, expires, err := h.tokens.Issue(acct)
	if err != nil {
		return h.internalError(c, "failed to issue session", err)
	}
	h.setSessionCookie(c, token, expires)

	user, _ := state.Current()
	h.logger.Info("signed in", "uid", acct.UID)
	return c.JSON(code, redirectResponse{Redirect: routes.Home, User: user})
}

// POST /api/auth/signout
func (h *Handler) SignOut(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, redirectResponse{Redirect: routes.SignIn})
}

// DELETE /api/account
func (h *Handler) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	acct, _ := accountFrom(c)

	if err := h.auth.DeleteAccount(ctx, acct); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return errorJSON(c, http.StatusUnauthorized, "sign in again to delete the account")
		}
		return h.internalError(c, "failed to delete account", err)
	}
	if err := h.data.DeleteUserData(ctx, acct.UID); err != nil {
		h.logger.Error("account deleted but user data remains", "uid", acct.UID, "error", err)
	}
	stateFrom(c).Clear()
	h.clearSessionCookie(c)

	h.logger.Info("account deleted", "uid", acct.UID)
	return c.JSON(http.StatusOK, redirectResponse{Redirect: routes.SignUp})
}
