// Package core wires the backend client, the stores and the session manager
// together and carries them through each HTTP request.
package core

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/newsdesk/newsdesk/store"
)

type App struct {
	Client *platform.Client // anon key
	Admin  *platform.Client // service-role key, nil if not configured
	Auth   *auth.Service

	SessionManager *scs.SessionManager

	Categories    *store.Categories
	Subcategories *store.Subcategories
	News          *store.NewsStore
	Profiles      *store.Profiles
	Users         *store.Users
	Stats         *store.Stats
}

// NewApp assembles the stores around the two clients. admin may be nil, then
// every user-management operation reports the missing service key.
func NewApp(client, admin *platform.Client, bootstrapAdmin bool) *App {
	return &App{
		Client: client,
		Admin:  admin,
		Auth: &auth.Service{
			Client:         client,
			BootstrapAdmin: bootstrapAdmin,
		},
		Categories:    store.NewCategories(client),
		Subcategories: store.NewSubcategories(client),
		News:          store.NewNews(client),
		Profiles:      store.NewProfiles(client),
		Users:         store.NewUsers(admin),
		Stats:         store.NewStats(client),
	}
}

func (a *App) Init(sessionStore scs.Store, cookiePath string) {

	a.SessionManager = scs.New()
	a.SessionManager.Store = sessionStore
	a.SessionManager.Cookie.Path = cookiePath + "/"
	a.SessionManager.Cookie.Persist = false                 // don't store the cookie across browser sessions
	a.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	a.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	a.SessionManager.IdleTimeout = 12 * time.Hour
	a.SessionManager.Lifetime = 720 * time.Hour
}
