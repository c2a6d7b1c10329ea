package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/newsdesk/newsdesk/core"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = "11111111-1111-1111-1111-111111111111"
const plainID = "22222222-2222-2222-2222-222222222222"
const goneID = "33333333-3333-3333-3333-333333333333"

// fakeBackend speaks just enough of the auth and data API for these tests.
// The bearer token decides who the caller is.
func fakeBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		switch {
		case r.URL.Path == "/auth/v1/user":
			switch token {
			case "admin-token":
				w.Write([]byte(`{"id": "` + adminID + `", "email": "admin@example.com"}`))
			case "user-token":
				w.Write([]byte(`{"id": "` + plainID + `", "email": "user@example.com"}`))
			default:
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"msg": "invalid token"}`))
			}

		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodGet:
			switch r.URL.Query().Get("id") {
			case "eq." + adminID:
				w.Write([]byte(`[{"id": "` + adminID + `", "first_name": "Ada", "role": "admin"}]`))
			case "eq." + plainID:
				w.Write([]byte(`[{"id": "` + plainID + `", "first_name": "Uma", "role": "user"}]`))
			case "eq." + goneID:
				w.Write([]byte(`[]`))
			default:
				w.Write([]byte(`[
					{"id": "` + adminID + `", "first_name": "Ada", "role": "admin"},
					{"id": "` + plainID + `", "first_name": "Uma", "role": "user"}
				]`))
			}

		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)

		case r.URL.Path == "/auth/v1/admin/users" && r.Method == http.MethodGet:
			w.Write([]byte(`{"users": [
				{"id": "` + adminID + `", "email": "admin@example.com", "created_at": "2024-01-01T00:00:00Z"},
				{"id": "` + plainID + `", "email": "user@example.com", "created_at": "2024-02-02T00:00:00Z"}
			]}`))

		case r.URL.Path == "/auth/v1/admin/users" && r.Method == http.MethodPost:
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			if body["email"] == "taken@example.com" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"msg": "A user with this email address has already been registered"}`))
				return
			}
			w.Write([]byte(`{"id": "` + plainID + `", "email": "` + body["email"].(string) + `", "created_at": "2024-03-03T00:00:00Z"}`))

		case strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/") && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "no route"}`))
		}
	})
}

// newTestServer wires a fresh app with in-memory sessions around the fake
// backend and returns it ready to serve API requests.
func newTestServer(t *testing.T, withServiceKey bool) (*core.App, http.Handler) {
	t.Helper()

	backend := httptest.NewServer(fakeBackend())
	t.Cleanup(backend.Close)

	client := platform.NewClient(backend.URL, "anon")
	var admin *platform.Client
	if withServiceKey {
		admin = platform.NewClient(backend.URL, "service")
	}

	app := core.NewApp(client, admin, false)
	app.Init(memstore.New(), "")

	return app, app.SessionManager.LoadAndSave(NewRouter(app))
}

// signedInCookie creates a session carrying the given access token and
// returns the session cookie to send with requests.
func signedInCookie(t *testing.T, app *core.App, token string) *http.Cookie {
	t.Helper()

	ctx, err := app.SessionManager.Load(context.Background(), "")
	require.NoError(t, err)
	app.SessionManager.Put(ctx, "access_token", token)

	sessionToken, _, err := app.SessionManager.Commit(ctx)
	require.NoError(t, err)

	return &http.Cookie{Name: app.SessionManager.Cookie.Name, Value: sessionToken}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Users   json.RawMessage `json:"users"`
	User    json.RawMessage `json:"user"`
}

func call(t *testing.T, handler http.Handler, method, target, body string, cookie *http.Cookie) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	var result envelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	return recorder.Code, result
}

func TestGuards(t *testing.T) {

	app, handler := newTestServer(t, true)

	status, result := call(t, handler, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, result.Success)
	assert.Equal(t, "Not signed in", result.Message)

	status, result = call(t, handler, http.MethodGet, "/api/users", "", signedInCookie(t, app, "user-token"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied. Admin privileges required.", result.Message)

	status, result = call(t, handler, http.MethodGet, "/api/users", "", signedInCookie(t, app, "revoked-token"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not signed in", result.Message)
}

func TestGetUsers(t *testing.T) {

	app, handler := newTestServer(t, true)

	status, result := call(t, handler, http.MethodGet, "/api/users", "", signedInCookie(t, app, "admin-token"))
	require.Equal(t, http.StatusOK, status)
	assert.True(t, result.Success)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Users, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "admin@example.com", users[0]["email"])
}

func TestGetUsersWithoutServiceKey(t *testing.T) {

	app, handler := newTestServer(t, false)

	status, result := call(t, handler, http.MethodGet, "/api/users", "", signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Service role key not configured", result.Message)
}

func TestCreateUserValidation(t *testing.T) {

	app, handler := newTestServer(t, true)
	cookie := signedInCookie(t, app, "admin-token")

	tests := []struct {
		body    string
		message string
	}{
		{`not json`, "Invalid request body"},
		{`{"email": "a@example.com", "password": "secret1"}`, "Email, password, first name, and last name are required"},
		{`{"email": "nope", "password": "secret1", "first_name": "A", "last_name": "B"}`, "Invalid email format"},
		{`{"email": "a@example.com", "password": "secret1", "first_name": "A", "last_name": "B", "role": "root"}`, "Invalid role. Must be admin, moderator, or user"},
		{`{"email": "a@example.com", "password": "short", "first_name": "A", "last_name": "B"}`, "Password must be at least 6 characters long"},
	}
	for _, test := range tests {
		status, result := call(t, handler, http.MethodPost, "/api/users", test.body, cookie)
		assert.Equal(t, http.StatusBadRequest, status, test.message)
		assert.False(t, result.Success)
		assert.Equal(t, test.message, result.Message)
	}
}

func TestCreateUser(t *testing.T) {

	app, handler := newTestServer(t, true)
	cookie := signedInCookie(t, app, "admin-token")

	status, result := call(t, handler, http.MethodPost, "/api/users",
		`{"email": "new@example.com", "password": "secret1", "first_name": "Jane", "last_name": "Doe"}`, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, result.Success)
	assert.Equal(t, "User Jane Doe has been created successfully", result.Message)

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(result.User, &user))
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, "user", user["role"]) // default when the request names none

	// the alias route serves the same handler
	status, _ = call(t, handler, http.MethodPost, "/api/users/index",
		`{"email": "other@example.com", "password": "secret1", "first_name": "Jo", "last_name": "Ma"}`, cookie)
	assert.Equal(t, http.StatusOK, status)
}

func TestCreateUserTakenEmail(t *testing.T) {

	app, handler := newTestServer(t, true)

	status, result := call(t, handler, http.MethodPost, "/api/users",
		`{"email": "taken@example.com", "password": "secret1", "first_name": "Jane", "last_name": "Doe"}`,
		signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, result.Message, "already been registered")
}

func TestDeleteUser(t *testing.T) {

	app, handler := newTestServer(t, true)
	cookie := signedInCookie(t, app, "admin-token")

	status, result := call(t, handler, http.MethodDelete, "/api/users/not-a-uuid", "", cookie)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid user ID", result.Message)

	status, result = call(t, handler, http.MethodDelete, "/api/users/"+goneID, "", cookie)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", result.Message)

	status, result = call(t, handler, http.MethodDelete, "/api/users/"+plainID, "", cookie)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User Uma has been deleted successfully", result.Message)
}

func TestDeleteUserWithoutServiceKey(t *testing.T) {

	app, handler := newTestServer(t, false)

	status, result := call(t, handler, http.MethodDelete, "/api/users/"+plainID, "",
		signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Service role key not configured", result.Message)
}
