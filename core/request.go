package core

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
	"golang.org/x/text/language"
)

type Notification struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Notification{}) // required for storing Notifications in a session
}

var langMatcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish, // default
	language.German,
})

var monthNamesDe = strings.NewReplacer(
	"January", "Januar",
	"February", "Februar",
	"March", "März",
	"May", "Mai",
	"June", "Juni",
	"July", "Juli",
	"October", "Oktober",
	"December", "Dezember",
)

const sessionTokenKey = "access_token"
const sessionRefreshKey = "refresh_token"

// A Request is created by App.NewRequest. User and Profile are the result of
// a fresh round-trip per request, never a cache read, so there is no
// stale-permission window.
type Request struct {
	app     *App
	User    *platform.User
	Profile *auth.Profile

	// http
	writer  http.ResponseWriter
	request *http.Request

	// robustness
	statusWritten bool

	// caching
	language language.Tag
}

// NewRequest creates a Request. If the session carries a token which the
// backend still accepts, User and Profile are set.
func (a *App) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		app:     a,
		writer:  w,
		request: httpreq,
	}

	req.language, _ = language.MatchStrings(langMatcher, httpreq.Header.Get("Accept-Language"))

	if token := a.SessionManager.GetString(httpreq.Context(), sessionTokenKey); token != "" {
		user, profile, err := a.Auth.CurrentUser(httpreq.Context(), token)
		if err == nil {
			req.User = user
			req.Profile = profile
		}
		// an expired or revoked token just means not logged in
	}

	return req
}

// Token returns the session's access token.
func (req *Request) Token() string {
	if req.request == nil {
		return ""
	}
	return req.app.SessionManager.GetString(req.request.Context(), sessionTokenKey)
}

// Danger adds a "danger" notification to the session.
func (req *Request) Danger(err error) {
	req.addNotification(err.Error(), "danger")
}

// Success adds a "success" notification to the session.
func (req *Request) Success(format string, args ...interface{}) {
	req.addNotification(fmt.Sprintf(format, args...), "success")
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addNotification(message, style string) {
	notifications, _ := req.app.SessionManager.Get(req.request.Context(), "notifications").([]Notification)
	notifications = append(notifications, Notification{message, style})
	req.app.SessionManager.Put(req.request.Context(), "notifications", notifications)
}

// RenderNotifications removes all notifications from the session and renders
// them into an HTML string. If the HTTP status had already been written, it
// does nothing.
func (req *Request) RenderNotifications() template.HTML {
	var r string
	if !req.statusWritten {
		notifications, _ := req.app.SessionManager.Pop(req.request.Context(), "notifications").([]Notification)
		for _, n := range notifications {
			r += `<div class="alert alert-` + n.Style + ` mt-3" role="alert">` + template.HTMLEscapeString(n.Message) + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with zero
// lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.app.SessionManager
	if sessMan.Status(req.request.Context()) == scs.Modified && len(sessMan.Keys(req.request.Context())) == 0 {
		_ = sessMan.Destroy(req.request.Context())
	}
}

// SeeOther sets the HTTP header to redirect to an URL.
func (req *Request) SeeOther(format string, args ...interface{}) {
	if req.statusWritten {
		return
	}
	var url = fmt.Sprintf(format, args...)
	http.Redirect(req.writer, req.request, url, http.StatusSeeOther)
	req.statusWritten = true
}

// Login signs the user in against the backend. On success the backend's
// tokens are stored in the session.
func (req *Request) Login(email string, password string) error {
	if req.LoggedIn() {
		return nil
	}

	session, profile, err := req.app.Auth.SignIn(req.request.Context(), email, password)
	if err != nil {
		return err
	}

	req.User = &session.User
	req.Profile = profile
	req.app.SessionManager.Put(req.request.Context(), sessionTokenKey, session.AccessToken)
	req.app.SessionManager.Put(req.request.Context(), sessionRefreshKey, session.RefreshToken)
	req.Success("Welcome %s!", profile.Name())
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// IsAdmin and CanManageContent gate UI only. Authorization happens in the
// backend's row-level security with the request's token.
func (req *Request) IsAdmin() bool {
	return req.Profile != nil && req.Profile.Role.ManagesUsers()
}

func (req *Request) CanManageContent() bool {
	return req.Profile != nil && req.Profile.Role.CanManageContent()
}

// Logout revokes the backend session, best effort, removes the tokens and
// calls req.Cleanup().
func (req *Request) Logout() {
	if !req.LoggedIn() {
		return
	}
	if token := req.Token(); token != "" {
		if err := req.app.Client.SignOut(req.request.Context(), token); err != nil {
			log.Printf("revoking session: %v", err)
		}
	}
	req.app.SessionManager.Remove(req.request.Context(), sessionTokenKey)
	req.app.SessionManager.Remove(req.request.Context(), sessionRefreshKey)
	req.User = nil
	req.Profile = nil
	req.Cleanup()
}

// FormatDateTime formats an RFC 3339 timestamp the way the request's language
// prefers. Unparseable input is returned as is.
func (req *Request) FormatDateTime(value string) string {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	b, _ := req.language.Base()
	switch b.String() {
	case "de":
		return monthNamesDe.Replace(ts.Format("2. January 2006 15:04 Uhr"))
	default:
		return ts.Format("January 2, 2006 3:04 PM")
	}
}
