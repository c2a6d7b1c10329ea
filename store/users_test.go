package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersWithoutServiceKey(t *testing.T) {

	s := NewUsers(nil)

	_, err := s.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrNoServiceKey)

	_, err = s.Create(context.Background(), "a@example.com", "secret1", "Jane", "Doe", auth.User)
	assert.ErrorIs(t, err, ErrNoServiceKey)

	_, err = s.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNoServiceKey)
}

func TestUsersFetchAll(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/profiles":
			w.Write([]byte(`[
				{"id": "u1", "first_name": "Jane", "last_name": "Doe", "role": "admin"},
				{"id": "u2", "first_name": "John", "last_name": "Roe"}
			]`))
		case "/auth/v1/admin/users":
			w.Write([]byte(`{"users": [{"id": "u1", "email": "jane@example.com", "created_at": "2024-01-02T03:04:05Z"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewUsers(platform.NewClient(srv.URL, "service"))
	users, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "jane@example.com", users[0].Email)
	assert.Equal(t, "2024-01-02T03:04:05Z", users[0].CreatedAt)
	assert.Equal(t, auth.Admin, users[0].Role)

	// no auth account found: placeholder email, default role
	assert.Equal(t, "Email not available", users[1].Email)
	assert.Equal(t, auth.User, users[1].Role)
}

func TestUsersFetchAllDegradesWithoutListing(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/profiles":
			w.Write([]byte(`[{"id": "u1", "first_name": "Jane", "role": "user"}]`))
		case "/auth/v1/admin/users":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"msg": "not allowed"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewUsers(platform.NewClient(srv.URL, "service"))
	users, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Email not available", users[0].Email)
}

func TestUsersCreate(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/admin/users" && r.Method == http.MethodPost:
			w.Write([]byte(`{"id": "u3", "email": "new@example.com", "created_at": "2024-05-06T07:08:09Z"}`))
		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id": "u3"}]`)) // trigger already provisioned the row
		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewUsers(platform.NewClient(srv.URL, "service"))
	user, err := s.Create(context.Background(), "new@example.com", "secret1", "Jane", "Doe", auth.Moderator)
	require.NoError(t, err)
	assert.Equal(t, "u3", user.ID)
	assert.Equal(t, auth.Moderator, user.Role)

	list := s.All()
	require.Len(t, list, 1)
	assert.Equal(t, "u3", list[0].ID)
}

func TestUsersCreateCleansUpOnProfileFailure(t *testing.T) {

	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/v1/admin/users" && r.Method == http.MethodPost:
			w.Write([]byte(`{"id": "u3", "email": "new@example.com"}`))
		case strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/") && r.Method == http.MethodDelete:
			deleted = strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/")
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id": "u3"}]`))
		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message": "boom"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewUsers(platform.NewClient(srv.URL, "service"))
	_, err := s.Create(context.Background(), "new@example.com", "secret1", "Jane", "Doe", auth.User)
	require.Error(t, err)
	assert.Equal(t, "u3", deleted) // the half-created account was removed again
	assert.Empty(t, s.All())
}

func TestUsersDelete(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/v1/profiles" && r.Method == http.MethodGet:
			if r.URL.Query().Get("id") == "eq.u1" {
				w.Write([]byte(`[{"id": "u1", "first_name": "Jane", "last_name": "Doe"}]`))
			} else {
				w.Write([]byte(`[]`))
			}
		case strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/") && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewUsers(platform.NewClient(srv.URL, "service"))

	profile, err := s.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name())

	_, err = s.Delete(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
