// Package api exposes the privileged JSON endpoints which the admin panel's
// front end calls. They proxy account administration through the service-role
// client, which never leaves the server.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/core"
)

// Error carries a status code to the response envelope. Anything else is
// reported as a generic internal error, so no cause leaks to the client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

type handler struct {
	app *core.App
}

// NewRouter sets up the /api routes. There is exactly one handler per
// capability; POST /api/users/index is an alias kept for existing clients.
func NewRouter(app *core.App) http.Handler {

	var h = &handler{app: app}
	var router = httprouter.New()

	router.GET("/api/users", h.middleware(h.getUsers))
	router.POST("/api/users", h.middleware(h.createUser))
	router.POST("/api/users/index", h.middleware(h.createUser))
	router.DELETE("/api/users/:id", h.middleware(h.deleteUser))

	return router
}

// middleware resolves the session to a fresh user and profile and requires
// the admin role before the handler runs. Role claims cached anywhere else
// are never trusted here.
func (h *handler) middleware(f func(w http.ResponseWriter, req *http.Request, r *core.Request, params httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = h.app.NewRequest(w, req)
		defer r.Cleanup()

		if !r.LoggedIn() {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}
		if !r.IsAdmin() {
			writeError(w, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}

		if err := f(w, req, r, params); err != nil {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				writeError(w, apiErr.Status, apiErr.Message)
				return
			}
			log.Printf("%s %s: %v", req.Method, req.URL.Path, err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
	}
}

func readJSON(req *http.Request, dest interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
