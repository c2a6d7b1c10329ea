package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/newsdesk/newsdesk/core"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers the auth and data requests the panel issues. The
// bearer token decides who the caller is.
func fakeBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Range", "*/2")
			return
		}

		switch r.URL.Path {
		case "/auth/v1/user":
			switch token {
			case "admin-token":
				w.Write([]byte(`{"id": "a1", "email": "ada@example.com"}`))
			case "mod-token":
				w.Write([]byte(`{"id": "m1", "email": "max@example.com"}`))
			case "user-token":
				w.Write([]byte(`{"id": "u1", "email": "uma@example.com"}`))
			default:
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"msg": "invalid token"}`))
			}
		case "/auth/v1/token":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
		case "/rest/v1/profiles":
			switch r.URL.Query().Get("id") {
			case "eq.a1":
				w.Write([]byte(`[{"id": "a1", "first_name": "Ada", "role": "admin"}]`))
			case "eq.m1":
				w.Write([]byte(`[{"id": "m1", "first_name": "Max", "role": "moderator"}]`))
			case "eq.u1":
				w.Write([]byte(`[{"id": "u1", "first_name": "Uma", "role": "user"}]`))
			default:
				w.Write([]byte(`[]`))
			}
		case "/rest/v1/news":
			w.Write([]byte(`[]`))
		case "/rest/v1/categories":
			w.Write([]byte(`[{"id": "c1", "name": "Politics"}, {"id": "c2", "name": "Sports"}]`))
		case "/rest/v1/subcategories":
			w.Write([]byte(`[
				{"id": "s1", "name": "Local Politics", "category_id": "c1"},
				{"id": "s2", "name": "Football", "category_id": "c2"}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "no route"}`))
		}
	})
}

func newTestServer(t *testing.T) (*core.App, http.Handler) {
	t.Helper()

	backend := httptest.NewServer(fakeBackend())
	t.Cleanup(backend.Close)

	app := core.NewApp(platform.NewClient(backend.URL, "anon"), nil, false)
	app.Init(memstore.New(), "")

	return app, app.SessionManager.LoadAndSave(NewBackendRouter(app))
}

func signedInCookie(t *testing.T, app *core.App, token string) *http.Cookie {
	t.Helper()

	ctx, err := app.SessionManager.Load(context.Background(), "")
	require.NoError(t, err)
	app.SessionManager.Put(ctx, "access_token", token)

	sessionToken, _, err := app.SessionManager.Commit(ctx)
	require.NoError(t, err)

	return &http.Cookie{Name: app.SessionManager.Cookie.Name, Value: sessionToken}
}

func get(handler http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestGuardRedirects(t *testing.T) {

	app, handler := newTestServer(t)

	// anonymous visitors are sent to the login page, keeping the destination
	resp := get(handler, "/admin/news", nil)
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth/login?redirect="+url.QueryEscape("/admin/news"), resp.Header().Get("Location"))

	// a plain user may not manage content
	resp = get(handler, "/admin", signedInCookie(t, app, "user-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, resp.Header().Get("Location"), "/auth/login?redirect=")

	// a revoked token counts as not signed in
	resp = get(handler, "/admin", signedInCookie(t, app, "revoked-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
}

func TestContentLevelAccess(t *testing.T) {

	app, handler := newTestServer(t)

	resp := get(handler, "/admin", signedInCookie(t, app, "mod-token"))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Dashboard")

	resp = get(handler, "/admin", signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAdminLevelAccess(t *testing.T) {

	app, handler := newTestServer(t)

	// moderators manage content but not users
	resp := get(handler, "/admin/users", signedInCookie(t, app, "mod-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Contains(t, resp.Header().Get("Location"), "/auth/login?redirect=")
}

func TestNavbarPerRole(t *testing.T) {

	app, handler := newTestServer(t)

	moderator := get(handler, "/admin", signedInCookie(t, app, "mod-token")).Body.String()
	assert.NotContains(t, moderator, `href="/admin/users"`)

	admin := get(handler, "/admin", signedInCookie(t, app, "admin-token")).Body.String()
	assert.Contains(t, admin, `href="/admin/users"`)
}

func TestRootRedirect(t *testing.T) {

	app, handler := newTestServer(t)

	resp := get(handler, "/", nil)
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth/login", resp.Header().Get("Location"))

	resp = get(handler, "/", signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/admin", resp.Header().Get("Location"))
}

func TestLogoutIsPublic(t *testing.T) {

	app, handler := newTestServer(t)

	// every signed-in role can end its session
	resp := get(handler, "/auth/logout", signedInCookie(t, app, "user-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth/login", resp.Header().Get("Location"))

	resp = get(handler, "/auth/logout", signedInCookie(t, app, "admin-token"))
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth/login", resp.Header().Get("Location"))

	// anonymous visitors are not bounced through the login guard either
	resp = get(handler, "/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth/login", resp.Header().Get("Location"))
}

func TestNewsFormRenderers(t *testing.T) {

	app, handler := newTestServer(t)

	resp := get(handler, "/admin/news/create", signedInCookie(t, app, "mod-token"))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `<option value="html">`)
	assert.Contains(t, resp.Body.String(), `<option value="markdown">`)
}

func TestNewsFormFiltersSubcategories(t *testing.T) {

	app, handler := newTestServer(t)
	cookie := signedInCookie(t, app, "mod-token")

	// without a chosen category, all subcategories are offered
	resp := get(handler, "/admin/news/create", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Local Politics")
	assert.Contains(t, resp.Body.String(), "Football")

	// a rejected submit re-renders with only the chosen category's subcategories
	form := url.Values{
		"title":       {"x"}, // too short
		"content":     {"long enough content"},
		"category_id": {"c1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/news/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Local Politics")
	assert.NotContains(t, recorder.Body.String(), "Football")
}

func TestLoginPage(t *testing.T) {

	_, handler := newTestServer(t)

	resp := get(handler, "/auth/login?redirect=%2Fadmin%2Fnews", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `name="redirect" value="/admin/news"`)

	// failed sign-in re-renders the form with the email kept
	form := url.Values{"email": {"ada@example.com"}, "password": {"wrong"}, "redirect": {"/admin"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `value="ada@example.com"`)
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/admin/news", safeRedirect("/admin/news"))
	assert.Equal(t, "/admin", safeRedirect("https://evil.example"))
	assert.Equal(t, "/admin", safeRedirect("//evil.example"))
	assert.Equal(t, "/admin", safeRedirect(""))
}
