package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/core"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/newsdesk/newsdesk/store"
	"github.com/newsdesk/newsdesk/validate"
)

func (h *handler) getUsers(w http.ResponseWriter, req *http.Request, r *core.Request, params httprouter.Params) error {

	users, err := h.app.Users.FetchAll(req.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoServiceKey) {
			return fail(http.StatusInternalServerError, "Service role key not configured")
		}
		return err
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
	return nil
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (h *handler) createUser(w http.ResponseWriter, req *http.Request, r *core.Request, params httprouter.Params) error {

	var body createUserRequest
	if err := readJSON(req, &body); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}

	if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" {
		return fail(http.StatusBadRequest, "Email, password, first name, and last name are required")
	}
	if errs := validate.Check(validate.Field{Name: "email", Value: body.Email, Rules: []validate.Rule{validate.Email()}}); !errs.Valid() {
		return fail(http.StatusBadRequest, "Invalid email format")
	}
	if body.Role != "" && !auth.Role(body.Role).Valid() {
		return fail(http.StatusBadRequest, "Invalid role. Must be admin, moderator, or user")
	}
	if len(body.Password) < 6 {
		return fail(http.StatusBadRequest, "Password must be at least 6 characters long")
	}

	var role = auth.Role(body.Role)
	if role == "" {
		role = auth.User
	}

	user, err := h.app.Users.Create(req.Context(), body.Email, body.Password, body.FirstName, body.LastName, role)
	if err != nil {
		if errors.Is(err, store.ErrNoServiceKey) {
			return fail(http.StatusInternalServerError, "Service role key not configured")
		}
		var backendErr *platform.Error
		if errors.As(err, &backendErr) && backendErr.Status < 500 {
			// the account was not created, e.g. the address is taken
			return fail(http.StatusBadRequest, backendErr.Message)
		}
		return fail(http.StatusInternalServerError, "Failed to create user profile")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"message": fmt.Sprintf("User %s %s has been created successfully", body.FirstName, body.LastName),
	})
	return nil
}

func (h *handler) deleteUser(w http.ResponseWriter, req *http.Request, r *core.Request, params httprouter.Params) error {

	var id = params.ByName("id")
	if id == "" {
		return fail(http.StatusBadRequest, "User ID is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fail(http.StatusBadRequest, "Invalid user ID")
	}

	profile, err := h.app.Users.Delete(req.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return fail(http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrNoServiceKey):
			return fail(http.StatusInternalServerError, "Service role key not configured")
		}
		var backendErr *platform.Error
		if errors.As(err, &backendErr) && backendErr.Status < 500 {
			return fail(http.StatusBadRequest, backendErr.Message)
		}
		return err
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("User %s has been deleted successfully", profile.Name()),
	})
	return nil
}
